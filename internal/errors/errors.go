package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/tracker"
)

// Format formats an error message with a consistent "Error: " prefix and,
// for errors the user can fix, a hint on the next line.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint suggests a fix for well-known failures.
func Hint(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return "run 'quitline init' to create the store"
	case errors.Is(err, tracker.ErrInvalidDate):
		return "dates use YYYY-MM-DD and cannot be in the future"
	case errors.Is(err, tracker.ErrInvalidAmount):
		return "amounts are non-negative numbers such as 12.50"
	case errors.Is(err, tracker.ErrDeserialization):
		return "the stored data is unreadable; 'quitline backup restore' can roll it back"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
