package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/route"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command. It reads the stored token only;
// whether the server still accepts it is not checked.
type StatusCmd struct {
	now func() time.Time
}

// SetClock overrides the current time (for testing).
func (c *StatusCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return []string{"whoami"} }
func (c *StatusCmd) Synopsis() string  { return "Show the stored session" }
func (c *StatusCmd) Usage() string     { return "taskcli status [common flags]" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if route.Resolve(store) == route.LoginView {
		fmt.Fprintln(out, "not logged in")
		return exitcode.AuthError
	}

	fmt.Fprintf(out, "logged in to %s\n", cfg.BaseURL)

	token, _ := store.Get()
	info, ok := session.Describe(token)
	if !ok {
		return exitcode.Success
	}
	if info.Subject != "" {
		fmt.Fprintf(out, "user: %s\n", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		now := time.Now
		if c.now != nil {
			now = c.now
		}
		state := "expires"
		if info.Expired(now()) {
			state = "expired"
		}
		fmt.Fprintf(out, "%s: %s\n", state, info.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return exitcode.Success
}
