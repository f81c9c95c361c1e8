package commands

import (
	"context"
	"flag"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/session"
	"taskcli/internal/tasksync"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
// The new completion state is whatever the server answers.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done", "undo"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "taskcli toggle <n>..." }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	nums, err := ParseTaskRefs(args)
	if err != nil {
		return refError(errOut, err)
	}

	syncer := tasksync.New(svc, store, cfg.Logger())
	tasks, code := resolveRefs(ctx, syncer, nums, errOut)
	if code != exitcode.Success {
		return code
	}

	for _, t := range tasks {
		if _, err := syncer.ToggleComplete(ctx, t.ID); err != nil {
			return report(errOut, err)
		}
	}
	return ok(cfg, out)
}
