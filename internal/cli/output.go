package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/mapty/internal/controller"
	"github.com/roach88/mapty/internal/geo"
	"github.com/roach88/mapty/internal/store"
	"github.com/roach88/mapty/internal/workout"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected input, failed save, failed scenarios
	ExitCommandError = 2 // Command error (bad flags, unreadable config, database not openable)
)

// Error codes reported in CLIError.Code.
const (
	CodeInvalidInput   = "E001"
	CodeNoLocation     = "E002"
	CodeMapNotReady    = "E003"
	CodeUnknownWorkout = "E004"
	CodeWriteFailed    = "E005"
	CodeInternal       = "E099"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// eventError converts a controller error into an ExitError carrying the
// message the user was shown.
func eventError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case workout.IsValidationError(err):
		return WrapExitError(ExitFailure, controller.MsgInvalidInput, err)
	case errors.Is(err, controller.ErrNoLocation):
		return WrapExitError(ExitFailure, controller.MsgNoLocation, err)
	case errors.Is(err, controller.ErrMapNotReady):
		return WrapExitError(ExitFailure, geo.FailureMessage, err)
	case errors.Is(err, controller.ErrUnknownWorkout):
		return WrapExitError(ExitFailure, "no such workout", err)
	case store.IsWriteError(err):
		return WrapExitError(ExitFailure, controller.MsgSaveFailed, err)
	default:
		return WrapExitError(ExitFailure, "session error", err)
	}
}

// errorCode returns the CLIError code for err.
func errorCode(err error) string {
	switch {
	case workout.IsValidationError(err):
		return CodeInvalidInput
	case errors.Is(err, controller.ErrNoLocation):
		return CodeNoLocation
	case errors.Is(err, controller.ErrMapNotReady):
		return CodeMapNotReady
	case errors.Is(err, controller.ErrUnknownWorkout):
		return CodeUnknownWorkout
	case store.IsWriteError(err):
		return CodeWriteFailed
	default:
		return CodeInternal
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Fprintln, so a fmt.Stringer
// controls its own rendering.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err in the configured format and returns it as an
// ExitError so the process exits non-zero.
func (f *OutputFormatter) Fail(err error) error {
	exit := eventError(err)
	var e *ExitError
	if errors.As(exit, &e) {
		if werr := f.Error(errorCode(err), e.Message, err.Error()); werr != nil {
			return werr
		}
	}
	return exit
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
