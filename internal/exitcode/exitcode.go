// Package exitcode defines the process exit codes of htask.
package exitcode

const (
	// Success means the command completed.
	Success = 0

	// UserError covers bad arguments, unknown task references and requests
	// the server rejected as invalid or missing.
	UserError = 1

	// AuthError means credentials are missing, unreadable or rejected.
	AuthError = 2

	// BackendError covers network failures and unexpected server responses.
	BackendError = 3
)
