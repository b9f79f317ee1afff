package infisical

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidOptions is matched by every options or config validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// OptionsError reports a missing mandatory field on an options or config value.
// It never involves the network.
type OptionsError struct {
	Options string // e.g. "GetSecretOptions"
	Field   string // e.g. "secretKey"
	Message string
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Options, e.Message)
}

// Is reports whether target is ErrInvalidOptions.
func (e *OptionsError) Is(target error) bool {
	return target == ErrInvalidOptions
}

// TransportError is returned when an HTTP exchange could not complete.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: [url=%s] [method=%s]: %v", e.URL, e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode is always 0 for transport failures.
func (e *TransportError) StatusCode() int {
	return 0
}

// APIError is returned when the server answers with a status outside [200, 400).
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string // raw response body
	Message    string
	RequestID  string

	// hasMessage is set when the body was JSON with a message field,
	// including an empty one.
	hasMessage bool
}

func (e *APIError) Error() string {
	if !e.hasMessage {
		return fmt.Sprintf("HTTP Error: [url=%s] [method=%s] [status-code=%d]", e.URL, e.Method, e.StatusCode)
	}
	return fmt.Sprintf("HTTP Error: [url=%s] [method=%s] [status-code=%d] [request-id=%s] [message=%s]",
		e.URL, e.Method, e.StatusCode, e.RequestID, e.Message)
}

// AuthenticationError wraps a failed login during client construction.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("infisical authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// newAPIError builds an APIError, extracting message and reqId from a JSON
// body when present.
func newAPIError(method, url string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       string(body),
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	rawMessage, ok := payload["message"]
	if !ok {
		return apiErr
	}

	apiErr.hasMessage = true
	apiErr.RequestID = "Unknown"
	if rawReqID, ok := payload["reqId"]; ok {
		var reqID string
		if err := json.Unmarshal(rawReqID, &reqID); err == nil {
			apiErr.RequestID = reqID
		}
	}
	apiErr.Message = extractMessage(rawMessage)
	return apiErr
}

func extractMessage(raw json.RawMessage) string {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "Unknown error format"
	}
	switch v := value.(type) {
	case string:
		return v
	case []interface{}, map[string]interface{}:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "Unknown error format"
		}
		return string(encoded)
	default:
		return "Unknown error format"
	}
}
