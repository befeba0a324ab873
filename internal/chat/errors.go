// internal/chat/errors.go
package chat

import "errors"

// Fatal error classes. Only the cmd layer translates these into process
// exit statuses; everything below returns them as values.
var (
	// ErrMissingCredentials: no cookie-based session and no usable
	// email/password pair. Detected before any credential-field work.
	ErrMissingCredentials = errors.New("no credentials available for login")

	// ErrChallenge: the site presented an anti-automation verification
	// wall. Not retryable; a human has to clear it.
	ErrChallenge = errors.New("automation challenge detected")

	// ErrErrorRedirect: the site bounced the login attempt to an error
	// page instead of a credential form.
	ErrErrorRedirect = errors.New("login redirected to an error page")

	// ErrLoginControlNotFound: every strategy for locating the login
	// entry point failed.
	ErrLoginControlNotFound = errors.New("login control not found")

	// ErrLoginTimeout: credentials were submitted but the chat UI never
	// became ready within the bounded wait.
	ErrLoginTimeout = errors.New("timed out waiting for chat to become ready after login")
)

// Process exit statuses owned by this package's error contract.
const (
	ExitSuccess            = 0
	ExitRuntimeError       = 1
	ExitLoginFailed        = 2
	ExitChallenge          = 3
	ExitErrorRedirect      = 4
	ExitMissingCredentials = 5
)

// ExitCode maps an error to the run's process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrMissingCredentials):
		return ExitMissingCredentials
	case errors.Is(err, ErrChallenge):
		return ExitChallenge
	case errors.Is(err, ErrErrorRedirect):
		return ExitErrorRedirect
	case errors.Is(err, ErrLoginControlNotFound), errors.Is(err, ErrLoginTimeout):
		return ExitLoginFailed
	default:
		return ExitRuntimeError
	}
}
