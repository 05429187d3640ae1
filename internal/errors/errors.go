package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// The monitor is long-running; only startup failures and signals produce a
// non-zero status.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the process was interrupted (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SettingsError describes a failed read or write of the persisted settings
// file. These errors are recovered locally: the caller logs them and keeps
// running on defaults or on the in-memory record.
type SettingsError struct {
	// Op is the failed operation ("read", "decode", "encode", "write").
	Op string
	// Path is the settings file location.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message describing the settings failure.
//
// Returns:
//   - string: The error message string.
func (e SettingsError) Error() string {
	return fmt.Sprintf("settings %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SettingsError) Unwrap() error { return e.Cause }

// AutostartError describes a failed interaction with the platform autostart
// mechanism. It is logged and otherwise ignored.
type AutostartError struct {
	// Op is the failed operation ("enable", "disable", "query").
	Op string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message describing the autostart failure.
//
// Returns:
//   - string: The error message string.
func (e AutostartError) Error() string {
	return fmt.Sprintf("autostart %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e AutostartError) Unwrap() error { return e.Cause }

// SampleError describes a failed read of OS counters.
type SampleError struct {
	// Source names the counter family ("cpu", "memory").
	Source string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message describing the sampling failure.
//
// Returns:
//   - string: The error message string.
func (e SampleError) Error() string {
	return fmt.Sprintf("sampling %s: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying cause.
func (e SampleError) Unwrap() error { return e.Cause }

// ErrUnsupportedPlatform is returned by platform-specific capabilities that
// have no implementation for the running OS.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps a run error to a process exit code.
//
// Parameters:
//   - err: The error returned by the run loop, possibly nil.
//
// Returns:
//   - int: The exit code to report to the OS.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case IsContextError(err):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
