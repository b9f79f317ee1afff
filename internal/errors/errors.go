package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/systmms/infisical-go/pkg/infisical"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// CommandError represents a command execution error
type CommandError struct {
	Command    string
	ExitCode   int
	Message    string
	Suggestion string
}

func (e CommandError) Error() string {
	msg := fmt.Sprintf("Command '%s' failed", e.Command)
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit code: %d)", e.ExitCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// InfisicalError turns a client error into a UserError describing the failed
// operation, with a suggestion derived from the error kind and status code.
// The API message, when present, becomes the details line.
func InfisicalError(operation string, err error) error {
	if err == nil {
		return nil
	}

	userErr := UserError{
		Message:    fmt.Sprintf("infisical %s failed", operation),
		Suggestion: getInfisicalSuggestion(err),
		Err:        err,
	}

	var apiErr *infisical.APIError
	if errors.As(err, &apiErr) {
		userErr.Details = fmt.Sprintf("status %d", apiErr.StatusCode)
		if apiErr.Message != "" {
			userErr.Details += ": " + apiErr.Message
		}
		if apiErr.RequestID != "" && apiErr.RequestID != "Unknown" {
			userErr.Details += " (request " + apiErr.RequestID + ")"
		}
		return userErr
	}

	userErr.Details = err.Error()
	return userErr
}

// getInfisicalSuggestion returns helpful suggestions based on the error kind
func getInfisicalSuggestion(err error) string {
	if errors.Is(err, infisical.ErrInvalidOptions) {
		return "Pass --project and --env, or set project_id and environment in infisical.yaml"
	}

	var authErr *infisical.AuthenticationError
	isLogin := errors.As(err, &authErr)

	switch infisical.StatusCode(err) {
	case http.StatusUnauthorized:
		if isLogin {
			return "Check the machine identity client ID and secret, or run 'infisical-go login' again"
		}
		return "The access token was rejected. Run 'infisical-go login' again"
	case http.StatusForbidden:
		return "The machine identity lacks access to this project or environment. Check its project role"
	case http.StatusNotFound:
		return "Verify the secret key, path and environment. List secrets with: 'infisical-go secrets list'"
	case http.StatusTooManyRequests:
		return "Infisical rate limit exceeded. Wait a moment and try again"
	}

	var transportErr *infisical.TransportError
	if errors.As(err, &transportErr) {
		errStr := transportErr.Err.Error()
		if strings.Contains(errStr, "no such host") || strings.Contains(errStr, "connection refused") {
			return "Unable to connect. Check the host URL with --host or INFISICAL_HOST"
		}
	}

	if IsRetryable(err) {
		return "This looks transient. Check your network connection and try again"
	}

	return ""
}

// WrapCommandNotFound wraps command not found errors with helpful suggestions
func WrapCommandNotFound(command string, err error) error {
	suggestions := map[string]string{
		"npm":    "Install Node.js from https://nodejs.org/",
		"yarn":   "Install Yarn from https://yarnpkg.com/",
		"python": "Install Python from https://python.org/",
		"go":     "Install Go from https://golang.org/",
		"docker": "Install Docker from https://docker.com/",
		"make":   "Install Make (usually comes with build tools)",
	}

	suggestion := suggestions[command]
	if suggestion == "" {
		suggestion = fmt.Sprintf("Make sure '%s' is installed and in your PATH", command)
	}

	msg := "command not found"
	if err != nil {
		msg += ": " + err.Error()
	}

	return CommandError{
		Command:    command,
		Message:    msg,
		Suggestion: suggestion,
	}
}

// IsRetryable checks if an error is transient. Client calls are never retried
// automatically; this only drives the suggestion shown to the user.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch code := infisical.StatusCode(err); {
	case code == http.StatusTooManyRequests, code >= 500:
		return true
	case code != 0:
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout",
		"temporary failure",
		"connection reset",
		"broken pipe",
		"rate limit",
		"too many requests",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	switch err.(type) {
	case UserError, ConfigError, CommandError:
		return err
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}
