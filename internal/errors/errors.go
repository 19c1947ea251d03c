package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/becoming/internal/logger"
)

// ErrCancelled is returned when the user declines a confirmation prompt.
var ErrCancelled = errors.New("cancelled")

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to a process exit status. A declined prompt is not a failure.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, ErrCancelled):
		return 0
	default:
		return 1
	}
}

// Fatal logs an error and exits the program with a non-zero code
func Fatal(err error) {
	if err == nil {
		return
	}
	code := ExitCode(err)
	if code == 0 {
		fmt.Fprintln(os.Stderr, "Cancelled.")
		os.Exit(0)
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintf(os.Stderr, "%s\n", Format(err))
	os.Exit(code)
}
