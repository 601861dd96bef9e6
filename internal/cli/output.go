package cli

import (
	"errors"
	"fmt"
	"io"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/codec"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure (invalid records or patches)
	ExitCommandError = 2 // Command error (unreadable files, unknown types, bad flags)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

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

// OutputFormatter writes command results as text lines or indented JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// JSON writes v as indented JSON followed by a newline.
func (f *OutputFormatter) JSON(v any) error {
	b, err := codec.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f.Writer, "%s\n", b)
	return err
}

// Line writes one formatted text line.
func (f *OutputFormatter) Line(format string, args ...any) error {
	_, err := fmt.Fprintf(f.Writer, format+"\n", args...)
	return err
}

// IssueJSON is the JSON form of a validation failure.
type IssueJSON struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func issueJSON(err error) *IssueJSON {
	if iss, ok := gomodel.AsIssue(err); ok {
		return &IssueJSON{Code: iss.Code, Path: iss.Path, Message: err.Error()}
	}
	return &IssueJSON{Code: "error", Message: err.Error()}
}
