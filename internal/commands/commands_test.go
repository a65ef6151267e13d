package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"muse/internal/commands"
	"muse/internal/config"
	"muse/internal/exitcode"
	"muse/internal/habit"
	"muse/internal/testutil"
)

// wednesday is 2026-10-14, a Wednesday.
var wednesday = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// runCommand is a helper to run a command with FakeService and scripted stdin.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, stdin string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, strings.NewReader(stdin), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "muse 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "muse onboard", "muse track", "--rollover", "MUSE_ROLLOVER", "  moodboard  images\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for images command
func TestImagesCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddImages("morning run", "https://img/1", "https://img/2")

	cmd := &commands.ImagesCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"morning", "run"}, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  https://img/1\n   2  https://img/2\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestImagesCommand_Empty(t *testing.T) {
	cmd := &commands.ImagesCmd{}

	stdout, _, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"running"}, "", false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no images found\n" {
		t.Errorf("expected placeholder, got %q", stdout)
	}

	stdout, _, _ = runCommand(t, cmd, testutil.NewFakeService(), []string{"running"}, "", true)
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestImagesCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SearchImagesErr = errors.New("quota exceeded")

	cmd := &commands.ImagesCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"running"}, "", false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: quota exceeded\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestImagesCommand_NoHabit(t *testing.T) {
	cmd := &commands.ImagesCmd{}
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, cmd, svc, []string{"  "}, "", false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: habit name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no lookups, got %v", svc.Calls)
	}
}

// Tests for songs command
func TestSongsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddSong("running", "t1", "Run", "A, B")
	svc.AddSong("running", "t2", "Instrumental", "")

	cmd := &commands.SongsCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Running"}, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  Run by A, B\n   2  Instrumental\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestSongsCommand_Empty(t *testing.T) {
	cmd := &commands.SongsCmd{}

	stdout, _, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"running"}, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no songs found\n" {
		t.Errorf("expected placeholder, got %q", stdout)
	}
}

func TestSongsCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SuggestSongsErr = errors.New("token expired")

	cmd := &commands.SongsCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"running"}, "", false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: token expired\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for track command
func TestTrackCommand_Session(t *testing.T) {
	cmd := &commands.TrackCmd{}
	cmd.SetNow(fixedClock(wednesday))

	stdin := "log\nlog\n\nstatus\nstats\nreset\nbogus\nquit\nlog\n"
	stdout, stderr, code := runCommand(t, cmd, nil, []string{"running"}, stdin, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "error: unknown tracker command: bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	testutil.Golden(t, "track_session", []byte(stdout))
}

func TestTrackCommand_EndOfInput(t *testing.T) {
	cmd := &commands.TrackCmd{}
	cmd.SetNow(fixedClock(wednesday))

	stdout, _, code := runCommand(t, cmd, nil, []string{"running"}, "log", true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if strings.Contains(stdout, "commands:") {
		t.Errorf("expected no hint in quiet mode, got %q", stdout)
	}
	if !strings.HasSuffix(stdout, "streak: 1 day (logged today)\n") {
		t.Errorf("expected logged state, got %q", stdout)
	}
}

func TestTrackCommand_DailyRollover(t *testing.T) {
	now := wednesday
	cmd := &commands.TrackCmd{}
	cmd.SetNow(func() time.Time { return now })
	cmd.SetRollover("daily")

	// The clock moves forward a day once the first log has been read.
	in := &stepReader{lines: []string{"log\n", "log\n", "quit\n"}, step: func(i int) {
		if i == 1 {
			now = now.AddDate(0, 0, 1)
		}
	}}

	var out, errOut bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Quiet: true}
	code := cmd.Run(context.Background(), cfg, nil, []string{"running"}, in, &out, &errOut)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errOut.String())
	}
	if !strings.Contains(out.String(), "Thu  ##########\nFri  ..........\nSat  ..........\nstreak: 2 days (logged today)\n") {
		t.Errorf("expected two-day streak, got:\n%s", out.String())
	}
}

func TestTrackCommand_LogReadsClockOnce(t *testing.T) {
	// Wednesday for the first two reads, Thursday from then on.
	calls := 0
	cmd := &commands.TrackCmd{}
	cmd.SetRollover("daily")
	cmd.SetNow(func() time.Time {
		calls++
		if calls <= 2 {
			return wednesday
		}
		return wednesday.AddDate(0, 0, 1)
	})

	stdout, _, code := runCommand(t, cmd, nil, []string{"running"}, "log\nlog\nquit\n", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if strings.Contains(stdout, "already logged today") {
		t.Errorf("second log on a new day reported as a repeat:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "Wed  ##########\nThu  ##########\nFri  ..........\nSat  ..........\nstreak: 2 days (logged today)\n") {
		t.Errorf("expected wednesday and thursday logged, got:\n%s", stdout)
	}
}

func TestTrackCommand_ConfiguredRollover(t *testing.T) {
	cmd := &commands.TrackCmd{}
	cmd.SetNow(fixedClock(wednesday))

	var out, errOut bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Env: config.Env{Rollover: habit.RolloverDaily}}
	code := cmd.Run(context.Background(), cfg, nil, []string{"running"}, strings.NewReader("quit\n"), &out, &errOut)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
}

func TestTrackCommand_BadRollover(t *testing.T) {
	cmd := &commands.TrackCmd{}
	cmd.SetRollover("weekly")

	_, stderr, code := runCommand(t, cmd, nil, []string{"running"}, "", false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid rollover policy: weekly\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestTrackCommand_NoHabit(t *testing.T) {
	cmd := &commands.TrackCmd{}

	_, stderr, code := runCommand(t, cmd, nil, nil, "", false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: habit name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for onboard command
func TestOnboardCommand_FullFlow(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddImages("running", "https://img/1", "https://img/2", "https://img/3", "https://img/4", "https://img/5")
	svc.AddSong("running", "t1", "Run", "A, B")
	svc.AddSong("running", "t2", "Pace", "C")

	cmd := &commands.OnboardCmd{}
	cmd.SetNow(fixedClock(wednesday))

	stdin := strings.Join([]string{
		"   ",
		"running",
		"1 3 3 +https://mine.example/pic.jpg",
		"",
		"2 9",
		"",
		"log",
		"quit",
	}, "\n") + "\n"
	stdout, stderr, code := runCommand(t, cmd, svc, nil, stdin, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expectedErr := "error: habit name required\nerror: invalid selection: 9\n"
	if stderr != expectedErr {
		t.Errorf("expected %q, got %q", expectedErr, stderr)
	}
	testutil.Golden(t, "onboard_full", []byte(stdout))
}

func TestOnboardCommand_LookupFailuresDegrade(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SearchImagesErr = errors.New("quota exceeded")
	svc.SuggestSongsErr = errors.New("token expired")

	cmd := &commands.OnboardCmd{}
	cmd.SetNow(fixedClock(wednesday))

	stdout, stderr, code := runCommand(t, cmd, svc, nil, "running\n\n\nquit\n", true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"no images found\n", "no songs found\n", "moodboard:\n  (none)\nplaylist:\n  (none)\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, stdout)
		}
	}
	if len(svc.Calls) != 2 {
		t.Errorf("expected both lookups, got %v", svc.Calls)
	}
}

func TestOnboardCommand_NoHabitEntered(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.OnboardCmd{}

	stdout, stderr, code := runCommand(t, cmd, svc, nil, "", false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stdout, "What habit do you want to build?\n") {
		t.Errorf("expected the habit prompt last, got %q", stdout)
	}
	if stderr != "error: habit name required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no lookups, got %v", svc.Calls)
	}
}

// stepReader yields one line per Read and calls step before handing out
// line i.
type stepReader struct {
	lines []string
	step  func(i int)
	next  int
}

func (r *stepReader) Read(p []byte) (int, error) {
	if r.next >= len(r.lines) {
		return 0, io.EOF
	}
	r.step(r.next)
	n := copy(p, r.lines[r.next])
	r.next++
	return n, nil
}
