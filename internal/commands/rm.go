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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "taskcli rm <n>..." }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	nums, err := ParseTaskRefs(args)
	if err != nil {
		return refError(errOut, err)
	}

	// Numbers refer to one listing; ids are resolved before anything is deleted.
	syncer := tasksync.New(svc, store, cfg.Logger())
	tasks, code := resolveRefs(ctx, syncer, nums, errOut)
	if code != exitcode.Success {
		return code
	}

	for _, t := range tasks {
		if _, err := syncer.Delete(ctx, t.ID); err != nil {
			return report(errOut, err)
		}
	}
	return ok(cfg, out)
}
