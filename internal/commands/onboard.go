package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"muse/internal/config"
	"muse/internal/exitcode"
	"muse/internal/habit"
	"muse/internal/onboarding"
	"muse/internal/output"
	"muse/internal/service"
)

func init() {
	Register(&OnboardCmd{})
}

// OnboardCmd implements the onboard command: the full screen sequence from the
// welcome text to the tracking dashboard.
type OnboardCmd struct {
	rollover string
	now      func() time.Time
}

// SetNow sets the clock (for testing).
func (c *OnboardCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *OnboardCmd) Name() string       { return "onboard" }
func (c *OnboardCmd) Aliases() []string  { return []string{"start"} }
func (c *OnboardCmd) Synopsis() string   { return "Set up a habit and start tracking" }
func (c *OnboardCmd) Usage() string      { return "muse onboard [--rollover manual|daily]" }
func (c *OnboardCmd) NeedsService() bool { return true }

func (c *OnboardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.rollover, "rollover", "", "")
}

func (c *OnboardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	policy, err := rolloverPolicy(cfg, c.rollover)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	logger := cfg.Logger()
	scanner := bufio.NewScanner(in)
	flow := onboarding.New()

	// Welcome and intro collect nothing.
	fmt.Fprintln(out, onboarding.WelcomeText)
	if err := flow.Advance(); err != nil {
		return flowError(errOut, err)
	}
	for _, line := range onboarding.IntroLines {
		fmt.Fprintln(out, line)
	}
	if err := flow.Advance(); err != nil {
		return flowError(errOut, err)
	}

	fmt.Fprintln(out, "What habit do you want to build?")
	for flow.Screen() == onboarding.HabitEntry {
		if !scanner.Scan() {
			fmt.Fprintln(errOut, "error: habit name required")
			return exitcode.UserError
		}
		if err := flow.SubmitHabit(scanner.Text()); err != nil {
			if errors.Is(err, onboarding.ErrHabitRequired) {
				fmt.Fprintln(errOut, "error: habit name required")
				continue
			}
			return flowError(errOut, err)
		}
	}
	habitName := flow.Params().Habit
	logger.Debug("habit entered", zap.String("habit", habitName))

	images, songs := lookup(ctx, svc, habitName, logger)

	// Moodboard: suggested images plus uploads.
	output.FormatHeader(out, "moodboard")
	var pickedImages onboarding.Selection
	drawImages := func() {
		for i, url := range images {
			output.FormatImage(out, i+1, url, pickedImages.Contains(url))
		}
		for _, url := range pickedImages.Items() {
			if !slices.Contains(images, url) {
				output.FormatUpload(out, url)
			}
		}
	}
	if len(images) == 0 {
		fmt.Fprintln(out, "no images found")
	}
	drawImages()
	if !cfg.Quiet {
		fmt.Fprintln(out, "toggle images by number, +<url> to add your own, blank line to continue")
	}
	pick(scanner, errOut, func(field string) bool {
		if url, ok := strings.CutPrefix(field, "+"); ok && url != "" {
			pickedImages.Add(url)
			return true
		}
		n, ok := choice(field, len(images))
		if ok {
			pickedImages.Toggle(images[n])
		}
		return ok
	}, drawImages)
	if err := flow.SubmitImages(pickedImages.Items()); err != nil {
		return flowError(errOut, err)
	}

	// Playlist: suggested songs, selected by track ID.
	output.FormatHeader(out, "playlist")
	var pickedSongs onboarding.Selection
	drawSongs := func() {
		for i, song := range songs {
			output.FormatSong(out, i+1, song, pickedSongs.Contains(song.ID))
		}
	}
	if len(songs) == 0 {
		fmt.Fprintln(out, "no songs found")
	}
	drawSongs()
	if !cfg.Quiet && len(songs) > 0 {
		fmt.Fprintln(out, "toggle songs by number, blank line to continue")
	}
	pick(scanner, errOut, func(field string) bool {
		n, ok := choice(field, len(songs))
		if ok {
			pickedSongs.Toggle(songs[n].ID)
		}
		return ok
	}, drawSongs)
	if err := flow.SubmitSongs(pickedSongs.Items()); err != nil {
		return flowError(errOut, err)
	}

	printDashboard(out, flow.Params(), songs)

	t := &tracker{
		habit: habitName,
		log:   habit.New(habit.WithRollover(policy)),
		now:   clock(c.now),
		cfg:   cfg,
	}
	return t.run(ctx, scanner, out, errOut)
}

// lookup fetches images and songs concurrently. A failed lookup is logged and
// yields an empty result so the flow can continue.
func lookup(ctx context.Context, svc service.Service, habitName string, logger *zap.Logger) ([]string, []service.Song) {
	var (
		images []string
		songs  []service.Song
		g      errgroup.Group
	)
	g.Go(func() error {
		var err error
		images, err = svc.SearchImages(ctx, habitName)
		if err != nil {
			logger.Warn("image search failed", zap.String("habit", habitName), zap.Error(err))
			images = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		songs, err = svc.SuggestSongs(ctx, habitName)
		if err != nil {
			logger.Warn("song lookup failed", zap.String("habit", habitName), zap.Error(err))
			songs = nil
		}
		return nil
	})
	g.Wait()

	if len(images) > onboarding.MaxImages {
		images = images[:onboarding.MaxImages]
	}
	if len(songs) > onboarding.MaxSongs {
		songs = songs[:onboarding.MaxSongs]
	}
	return images, songs
}

// pick reads selection lines until a blank line or end of input. Each
// whitespace-separated field is passed to apply; rejected fields are reported.
// redraw runs after every selection line.
func pick(scanner *bufio.Scanner, errOut io.Writer, apply func(field string) bool, redraw func()) {
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			return
		}
		for _, f := range fields {
			if !apply(f) {
				fmt.Fprintf(errOut, "error: invalid selection: %s\n", f)
			}
		}
		redraw()
	}
}

// flowError reports a screen transition that the flow refused.
func flowError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

// choice parses a 1-based item number and returns the 0-based index.
func choice(field string, n int) (int, bool) {
	i, err := strconv.Atoi(field)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func printDashboard(out io.Writer, p onboarding.Params, songs []service.Song) {
	output.FormatHeader(out, p.Habit)

	fmt.Fprintln(out, "moodboard:")
	if len(p.Images) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, url := range p.Images {
		fmt.Fprintf(out, "  %s\n", url)
	}

	byID := make(map[string]service.Song, len(songs))
	for _, s := range songs {
		byID[s.ID] = s
	}
	fmt.Fprintln(out, "playlist:")
	if len(p.Songs) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, id := range p.Songs {
		fmt.Fprintf(out, "  %s\n", output.SongTitle(byID[id]))
	}
}
