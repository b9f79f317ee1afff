package infisical

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout applies to every request made by a client.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent on every request unless overridden in Config.
const DefaultUserAgent = "infisical-go"

// HTTPDoer performs HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Logger receives debug output from the client. Secret values are never
// passed to it.
type Logger interface {
	Debug(format string, args ...interface{})
}

// RequestObserver is told about every completed or failed HTTP exchange.
// statusCode is 0 when the exchange failed at the transport level.
type RequestObserver interface {
	ObserveRequest(operation, method string, statusCode int, elapsed time.Duration)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, string, int, time.Duration) {}

// newDefaultHTTPClient returns the HTTP client used when none is injected.
func newDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// transport sends requests to one Infisical host. Each Client owns its own
// transport, so the Authorization header never leaks between clients.
type transport struct {
	baseURL  string
	doer     HTTPDoer
	logger   Logger
	observer RequestObserver

	mu             sync.RWMutex
	defaultHeaders map[string]string
}

func newTransport(baseURL, userAgent string, doer HTTPDoer, logger Logger, observer RequestObserver) *transport {
	return &transport{
		baseURL:  baseURL,
		doer:     doer,
		logger:   logger,
		observer: observer,
		defaultHeaders: map[string]string{
			"User-Agent":   userAgent,
			"Accept":       "application/json",
			"Content-Type": "application/json",
		},
	}
}

// setDefaultHeader sets a header sent with every subsequent request.
func (t *transport) setDefaultHeader(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultHeaders[name] = value
}

func (t *transport) defaultHeader(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.defaultHeaders[name]
}

// mergeHeaders returns the default headers overlaid with headers.
func (t *transport) mergeHeaders(headers map[string]string) map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	merged := make(map[string]string, len(t.defaultHeaders)+len(headers))
	for k, v := range t.defaultHeaders {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	return merged
}

// send performs one request and returns the response body. Responses with a
// status outside [200, 400) become *APIError; failed exchanges become
// *TransportError.
func (t *transport) send(ctx context.Context, op, method, endpoint string, headers, params map[string]string, body []byte) ([]byte, error) {
	fullURL := t.baseURL + endpoint

	var reader io.Reader
	if len(body) > 0 && method != http.MethodGet {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}
	for k, v := range t.mergeHeaders(headers) {
		req.Header.Set(k, v)
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	t.logger.Debug("%s %s", method, fullURL)
	start := time.Now()

	resp, err := t.doer.Do(req)
	if err != nil {
		t.observer.ObserveRequest(op, method, 0, time.Since(start))
		t.logger.Debug("%s %s failed: %v", method, fullURL, err)
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	t.observer.ObserveRequest(op, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: fmt.Errorf("read response body: %w", err)}
	}

	t.logger.Debug("%s %s -> %d", method, fullURL, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, newAPIError(method, fullURL, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (t *transport) get(ctx context.Context, op, endpoint string, params map[string]string) ([]byte, error) {
	return t.send(ctx, op, http.MethodGet, endpoint, nil, params, nil)
}

func (t *transport) post(ctx context.Context, op, endpoint string, body []byte) ([]byte, error) {
	return t.send(ctx, op, http.MethodPost, endpoint, nil, nil, body)
}

func (t *transport) patch(ctx context.Context, op, endpoint string, body []byte) ([]byte, error) {
	return t.send(ctx, op, http.MethodPatch, endpoint, nil, nil, body)
}

func (t *transport) delete(ctx context.Context, op, endpoint string, body []byte) ([]byte, error) {
	return t.send(ctx, op, http.MethodDelete, endpoint, nil, nil, body)
}

// omitEmptyParams drops parameters whose value is empty.
func omitEmptyParams(params map[string]string) map[string]string {
	for k, v := range params {
		if v == "" {
			delete(params, k)
		}
	}
	return params
}

// omitEmptyFields drops nil values, empty strings and empty string slices so
// that absent and empty fields look the same to the server.
func omitEmptyFields(fields map[string]interface{}) map[string]interface{} {
	for k, v := range fields {
		switch val := v.(type) {
		case nil:
			delete(fields, k)
		case string:
			if val == "" {
				delete(fields, k)
			}
		case []string:
			if len(val) == 0 {
				delete(fields, k)
			}
		}
	}
	return fields
}

func encodeBody(fields map[string]interface{}) ([]byte, error) {
	body, err := json.Marshal(omitEmptyFields(fields))
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return body, nil
}

func decodeBody(data []byte, out interface{}) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// secretEndpoint returns the raw secret endpoint for key.
func secretEndpoint(key string) string {
	return rawSecretsEndpoint + "/" + url.PathEscape(key)
}

const (
	rawSecretsEndpoint = "/api/v3/secrets/raw"
	loginEndpoint      = "/api/v1/auth/universal-auth/login"
)
