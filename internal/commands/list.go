package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/output"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/tasksync"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskcli` (no args) and `taskcli list`.
type ListCmd struct {
	summary bool
}

// SetSummary enables the count footer (for testing).
func (c *ListCmd) SetSummary(on bool) {
	c.summary = on
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskcli list [--summary]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.summary, "summary", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	tasks, err := tasksync.New(svc, store, cfg.Logger()).Refresh(ctx)
	if err != nil {
		return report(errOut, err)
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	output.FormatTasks(out, tasks)
	if c.summary {
		output.Summary(out, tasks)
	}
	return exitcode.Success
}
