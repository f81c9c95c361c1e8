package commands

import (
	"errors"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

// report prints err and maps it to an exit code.
func report(errOut io.Writer, err error) int {
	var (
		ve *service.ValidationError
		rf *service.RequestFailedError
	)
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		fmt.Fprintf(errOut, "error: not logged in (run: %s login)\n", config.AppName)
		return exitcode.AuthError
	case errors.Is(err, service.ErrSessionExpired):
		fmt.Fprintf(errOut, "error: session expired (run: %s login)\n", config.AppName)
		return exitcode.AuthError
	case errors.As(err, &ve):
		fmt.Fprintf(errOut, "error: %v\n", ve)
		return exitcode.UserError
	case errors.Is(err, service.ErrUnknownTask):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &rf):
		fmt.Fprintf(errOut, "error: %s\n", rf.Message)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
}

func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
