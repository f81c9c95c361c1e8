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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"rename"} }
func (c *EditCmd) Synopsis() string  { return "Change a task's title" }
func (c *EditCmd) Usage() string     { return "taskcli edit <n> <title...>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskRef(args)
	if err != nil {
		return refError(errOut, err)
	}
	// Only a missing argument is caught here; the title itself is the server's to judge.
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args[1:], " ")

	syncer := tasksync.New(svc, store, cfg.Logger())
	tasks, code := resolveRefs(ctx, syncer, []int{num}, errOut)
	if code != exitcode.Success {
		return code
	}

	draft, found := syncer.Edit(tasks[0].ID)
	if !found {
		return report(errOut, fmt.Errorf("%w: %s", service.ErrUnknownTask, tasks[0].ID))
	}
	draft.Title = title
	if _, err := syncer.Commit(ctx, draft); err != nil {
		return report(errOut, err)
	}
	return ok(cfg, out)
}
