package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"muse/internal/config"
	"muse/internal/exitcode"
	"muse/internal/habit"
	"muse/internal/output"
	"muse/internal/service"
)

func init() {
	Register(&TrackCmd{})
}

// TrackCmd implements the track command.
type TrackCmd struct {
	rollover string
	now      func() time.Time
}

// SetNow sets the clock (for testing).
func (c *TrackCmd) SetNow(now func() time.Time) {
	c.now = now
}

// SetRollover sets the rollover flag value (for testing).
func (c *TrackCmd) SetRollover(policy string) {
	c.rollover = policy
}

func (c *TrackCmd) Name() string       { return "track" }
func (c *TrackCmd) Aliases() []string  { return nil }
func (c *TrackCmd) Synopsis() string   { return "Log a habit interactively" }
func (c *TrackCmd) Usage() string      { return "muse track [--rollover manual|daily] <habit...>" }
func (c *TrackCmd) NeedsService() bool { return false }

func (c *TrackCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.rollover, "rollover", "", "")
}

func (c *TrackCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	habitName, ok := habitArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	policy, err := rolloverPolicy(cfg, c.rollover)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	t := &tracker{
		habit: habitName,
		log:   habit.New(habit.WithRollover(policy)),
		now:   clock(c.now),
		cfg:   cfg,
	}
	output.FormatHeader(out, habitName)
	return t.run(ctx, bufio.NewScanner(in), out, errOut)
}

// rolloverPolicy returns the flag value if set, otherwise the configured default.
func rolloverPolicy(cfg *config.Config, flagValue string) (habit.Rollover, error) {
	if flagValue == "" {
		return cfg.Env.Rollover, nil
	}
	return habit.ParseRollover(flagValue)
}

func clock(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

const trackerHint = "commands: log, reset, status, stats, quit"

// tracker runs one interactive logging session. State is dropped when the
// session ends.
type tracker struct {
	habit string
	log   *habit.Log
	now   func() time.Time
	cfg   *config.Config
}

// run reads tracker commands until quit or end of input.
func (t *tracker) run(ctx context.Context, scanner *bufio.Scanner, out, errOut io.Writer) int {
	logger := t.cfg.Logger().With(zap.String("habit", t.habit), zap.Stringer("rollover", t.log.Rollover()))

	output.FormatState(out, t.log.StateAt(t.now()))
	if !t.cfg.Quiet {
		fmt.Fprintln(out, trackerHint)
	}

	for scanner.Scan() {
		if ctx.Err() != nil {
			fmt.Fprintln(errOut, "error: cancelled")
			return exitcode.UserError
		}

		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch cmd {
		case "":
			continue
		case "log":
			now := t.now()
			before := t.log.StateAt(now)
			st := t.log.LogToday(now)
			if before.LoggedToday && !t.cfg.Quiet {
				fmt.Fprintln(out, "already logged today")
			}
			logger.Debug("log today", zap.Int("streak", st.Streak), zap.Bool("changed", !before.LoggedToday))
			output.FormatState(out, st)
		case "reset":
			st := t.log.Reset()
			logger.Debug("reset")
			output.FormatState(out, st)
		case "status":
			output.FormatState(out, t.log.StateAt(t.now()))
		case "stats":
			now := t.now()
			st := t.log.StateAt(now)
			output.FormatStats(out, st.Week)
			fmt.Fprintf(out, "current run:    %d\n", st.Week.RunEndingAt(habit.DayIndex(now)))
		case "quit", "exit":
			return exitcode.Success
		default:
			fmt.Fprintf(errOut, "error: unknown tracker command: %s\n", cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: reading input: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
