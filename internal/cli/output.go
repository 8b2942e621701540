package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/store"
	"github.com/KUROROSUKE/english-learning/internal/study"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (storage write/read failure, partial recording)
	ExitCommandError = 2 // Command error (bad flags, invalid submission, database unavailable)
)

// ExitError represents an error with a specific exit code.
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
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
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

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // recording trace id
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`    // STORAGE_*, E_INVALID_SUBMISSION, E_COMMAND
	Message string `json:"message"` // human-readable message
}

// errorCode classifies err for CLIError.Code.
func errorCode(err error) string {
	var se *store.StorageError
	switch {
	case errors.As(err, &se):
		return string(se.Code)
	case errors.Is(err, study.ErrInvalidSubmission):
		return "E_INVALID_SUBMISSION"
	default:
		return "E_COMMAND"
	}
}

// exitCodeFor maps a storage or domain error to a CLI exit code.
func exitCodeFor(err error) int {
	if store.IsUnavailable(err) || errors.Is(err, study.ErrInvalidSubmission) {
		return ExitCommandError
	}
	return ExitFailure
}

func writeJSON(w io.Writer, resp CLIResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// outputJSON writes a successful response envelope.
func outputJSON(cmd *cobra.Command, data any, traceID string) error {
	return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: data, TraceID: traceID})
}

// outputError writes an error envelope in JSON mode and returns err
// wrapped with its exit code. Text-mode errors are printed by main.
func outputError(cmd *cobra.Command, opts *RootOptions, message string, err error, traceID string) error {
	code := exitCodeFor(err)
	if opts.Format == "json" {
		_ = writeJSON(cmd.OutOrStdout(), CLIResponse{
			Status:  "error",
			Error:   &CLIError{Code: errorCode(err), Message: fmt.Sprintf("%s: %v", message, err)},
			TraceID: traceID,
		})
	}
	return WrapExitError(code, message, err)
}
