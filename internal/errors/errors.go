package errors

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/platewise/internal/api"
	"github.com/julianstephens/platewise/internal/constants"
	"github.com/julianstephens/platewise/internal/logger"
)

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

// UserMessage converts an error into the text of a transient notice.
// Unreachable service, expired session and server-reported failures get fixed
// wording; anything else (validation, policy) is shown as is.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrUnauthorized):
		return constants.NoticeSessionExpired
	case errors.Is(err, api.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return constants.NoticeNetworkError
	}
	var re *api.ResponseError
	if errors.As(err, &re) {
		if re.Message != "" {
			return re.Message
		}
		return constants.NoticeGenericFailure
	}
	return err.Error()
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
