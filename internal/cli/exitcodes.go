package cli

import "github.com/tracklite/tracklite/internal/remote"

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: network errors, unexpected failures, or any error that
	// doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: task not found, project not found, label not found.
	ExitNotFound = 3

	// ExitValidation indicates a validation error.
	// Use for: invalid priority or status values, empty required
	// fields, or any case where input fails validation rules.
	ExitValidation = 4

	// ExitAuth indicates a missing or rejected session, or an
	// operation the signed-in user is not allowed to perform.
	ExitAuth = 5
)

// ExitCodeFor maps a remote error to the matching exit code
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case remote.IsNotFound(err):
		return ExitNotFound
	case remote.IsValidation(err):
		return ExitValidation
	case remote.IsUnauthenticated(err), remote.IsForbidden(err):
		return ExitAuth
	default:
		return ExitError
	}
}
