// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad input: arguments, flags, task numbers, blank titles.
	UserError = 1

	// AuthError indicates no session, an expired session, or rejected credentials.
	AuthError = 2

	// BackendError indicates the server or network failed the request.
	BackendError = 3
)
