package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"muse/internal/config"
	"muse/internal/exitcode"
	"muse/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "muse help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, in io.Reader, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)

	fmt.Fprintln(out, "\nAliases:")
	for _, cmd := range DefaultRegistry.All() {
		for _, alias := range cmd.Aliases() {
			fmt.Fprintf(out, "  %-10s %s\n", alias, cmd.Name())
		}
	}
	return exitcode.Success
}

const helpText = `Usage:
  muse                                          Start onboarding
  muse onboard [common flags]                   Walk through habit setup and start tracking
  muse images [common flags] <habit...>         Suggest inspiration images for a habit
  muse songs [common flags] <habit...>          Suggest songs for a habit
  muse track [common flags] [--rollover <policy>] <habit...>
                                                Log a habit interactively
  muse serve [common flags] [--addr <addr>]     Run the image search proxy
  muse help
  muse version

Tracker commands (one per line):
  log      Log today
  reset    Clear the streak and the week
  status   Show the week and the streak
  stats    Show weekly statistics
  quit     End the session

Rollover policies:
  manual   A logged day stays logged until reset (default)
  daily    A new day can be logged; a new week starts empty

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  GOOGLE_API_KEY, GOOGLE_CX                 Google Custom Search credentials
  SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET  Spotify app credentials
  PORT                                      Proxy port (default 3000)
  MUSE_ROLLOVER                             Default rollover policy
`
