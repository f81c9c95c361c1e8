package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/auth"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/session"
)

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session token" }
func (c *LoginCmd) Usage() string     { return "taskcli login [username] [password]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 2 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[2])
		return exitcode.UserError
	}
	p := newPrompter(cfg.In, errOut)
	username := p.value(args, 0, "username")
	password := p.value(args, 1, "password")

	if err := auth.NewFlow(svc, store, cfg.Logger()).Login(ctx, username, password); err != nil {
		return authFailure(errOut, err)
	}
	return loggedIn(cfg, out, username)
}

// RegisterCmd implements the register command. A new account is logged in
// immediately.
type RegisterCmd struct{}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string     { return "taskcli register [username] [email] [password]" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, store session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 3 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[3])
		return exitcode.UserError
	}
	p := newPrompter(cfg.In, errOut)
	username := p.value(args, 0, "username")
	email := p.value(args, 1, "email")
	password := p.value(args, 2, "password")

	if err := auth.NewFlow(svc, store, cfg.Logger()).Register(ctx, username, email, password); err != nil {
		return authFailure(errOut, err)
	}
	return loggedIn(cfg, out, username)
}

// authFailure reports a rejected login or registration. These are form
// errors, not lost sessions, so anything the server refused is an auth error.
func authFailure(errOut io.Writer, err error) int {
	code := report(errOut, err)
	if code == exitcode.BackendError && isRejection(err) {
		return exitcode.AuthError
	}
	return code
}

// isRejection reports whether the server answered with a 4xx.
func isRejection(err error) bool {
	var rf *service.RequestFailedError
	return errors.As(err, &rf) && rf.StatusCode >= 400 && rf.StatusCode < 500
}

func loggedIn(cfg *config.Config, out io.Writer, username string) int {
	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", username)
	}
	return exitcode.Success
}
