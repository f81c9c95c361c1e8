package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. The command list comes from the
// registry it was given, DefaultRegistry when nil.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskcli help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	fmt.Fprintln(out, "Usage:")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "  taskcli\tList tasks")
	for _, cmd := range reg.All() {
		synopsis := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			synopsis += " (aliases: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.Usage(), synopsis)
	}
	_ = tw.Flush()
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Task numbers are positions in the current listing, starting at 1.
Missing login and register values are read from stdin.

Common flags:
  --config <dir>   Override config directory
  --server <url>   Override the task service URL
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKCLI_BASE_URL, TASKCLI_TIMEOUT override config.yaml.
`
