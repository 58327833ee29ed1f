// Package exitcodes maps updater outcomes onto stable process exit
// codes so install scripts and the host application can branch on them.
package exitcodes

import "fmt"

const (
	// Success indicates the command completed and nothing is pending.
	Success = 0

	// GeneralError indicates an unclassified failure.
	GeneralError = 1

	// InvalidArgs indicates bad command-line arguments or flags.
	InvalidArgs = 2

	// PreconditionFailed indicates missing or invalid configuration.
	PreconditionFailed = 3

	// NetworkError indicates the release feed could not be reached.
	NetworkError = 4

	// ValidationError indicates the feed response failed the
	// validation contract.
	ValidationError = 6

	// UpdateAvailable is not a failure: a check completed and found a
	// newer release. Distinct so scripts can branch without parsing.
	UpdateAvailable = 30
)

// ErrorWithCode carries an explicit exit code through RunE returns.
type ErrorWithCode struct {
	Code    int
	Message string
	Cause   error
}

func (e *ErrorWithCode) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ErrorWithCode) Unwrap() error { return e.Cause }

// NewError creates an error with an explicit exit code.
func NewError(code int, message string) *ErrorWithCode {
	return &ErrorWithCode{Code: code, Message: message}
}

// NewErrorf creates an error with a formatted message and exit code.
func NewErrorf(code int, format string, args ...any) *ErrorWithCode {
	return &ErrorWithCode{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches an exit code to an existing error.
func WrapError(code int, message string, cause error) *ErrorWithCode {
	return &ErrorWithCode{Code: code, Message: message, Cause: cause}
}

// CodeForError resolves the exit code an error should produce.
func CodeForError(err error) int {
	if err == nil {
		return Success
	}
	if ec, ok := err.(*ErrorWithCode); ok {
		return ec.Code
	}
	return GeneralError
}
