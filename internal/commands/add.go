package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/tasksync"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskcli add <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Blank titles are rejected by the synchronizer before any request.
	title := strings.Join(args, " ")
	if _, err := tasksync.New(svc, store, cfg.Logger()).Create(ctx, title); err != nil {
		return report(errOut, err)
	}
	return ok(cfg, out)
}
