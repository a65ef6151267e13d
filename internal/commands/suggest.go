package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"muse/internal/config"
	"muse/internal/exitcode"
	"muse/internal/output"
	"muse/internal/service"
)

func init() {
	Register(&ImagesCmd{})
	Register(&SongsCmd{})
}

// ImagesCmd implements the images command.
type ImagesCmd struct{}

func (c *ImagesCmd) Name() string       { return "images" }
func (c *ImagesCmd) Aliases() []string  { return []string{"moodboard"} }
func (c *ImagesCmd) Synopsis() string   { return "Suggest inspiration images" }
func (c *ImagesCmd) Usage() string      { return "muse images <habit...>" }
func (c *ImagesCmd) NeedsService() bool { return true }

func (c *ImagesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImagesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	habitName, ok := habitArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	images, err := svc.SearchImages(ctx, habitName)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if len(images) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no images found")
		}
		return exitcode.Success
	}
	for i, url := range images {
		output.FormatImage(out, i+1, url, false)
	}
	return exitcode.Success
}

// SongsCmd implements the songs command.
type SongsCmd struct{}

func (c *SongsCmd) Name() string       { return "songs" }
func (c *SongsCmd) Aliases() []string  { return []string{"playlist"} }
func (c *SongsCmd) Synopsis() string   { return "Suggest songs" }
func (c *SongsCmd) Usage() string      { return "muse songs <habit...>" }
func (c *SongsCmd) NeedsService() bool { return true }

func (c *SongsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SongsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	habitName, ok := habitArg(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	songs, err := svc.SuggestSongs(ctx, habitName)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if len(songs) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no songs found")
		}
		return exitcode.Success
	}
	for i, song := range songs {
		output.FormatSong(out, i+1, song, false)
	}
	return exitcode.Success
}

// habitArg joins positional args into a habit name.
// It reports the error itself and returns false if the name is blank.
func habitArg(args []string, errOut io.Writer) (string, bool) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: habit name required")
		return "", false
	}
	return name, true
}
