// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, blank habit, bad input).
	UserError = 1

	// ConfigError indicates missing or invalid credentials or settings.
	ConfigError = 2

	// BackendError indicates a search API or network error.
	BackendError = 3
)
