package infisical

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
	codes []int
}

func (r *recordingObserver) ObserveRequest(operation, method string, statusCode int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, operation+" "+method)
	r.codes = append(r.codes, statusCode)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func TestOmitEmptyFields(t *testing.T) {
	t.Parallel()

	got := omitEmptyFields(map[string]interface{}{
		"secretComment": "",
		"secretValue":   "v",
		"tagIds":        []string{},
		"nothing":       nil,
		"days":          uint(3),
		"flag":          false,
	})

	assert.Equal(t, map[string]interface{}{
		"secretValue": "v",
		"days":        uint(3),
		"flag":        false,
	}, got)
}

func TestEncodeBodyOmitsEmptyComment(t *testing.T) {
	t.Parallel()

	body, err := encodeBody(map[string]interface{}{
		"environment":   "dev",
		"secretComment": "",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"environment":"dev"}`, string(body))
	assert.NotContains(t, string(body), "secretComment")
}

func TestOmitEmptyParams(t *testing.T) {
	t.Parallel()

	got := omitEmptyParams(map[string]string{"a": "", "b": "x", "recursive": "false"})
	assert.Equal(t, map[string]string{"b": "x", "recursive": "false"}, got)
}

func TestSecretEndpointEscapesKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/api/v3/secrets/raw/DB_URL", secretEndpoint("DB_URL"))
	assert.Equal(t, "/api/v3/secrets/raw/a%2Fb", secretEndpoint("a/b"))
}

func TestTransportSendsDefaultHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := newTransport(srv.URL, "infisical-go-test", srv.Client(), nopLogger{}, nopObserver{})
	_, err := tr.get(context.Background(), "probe", "/x", nil)
	require.NoError(t, err)

	assert.Equal(t, "infisical-go-test", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Empty(t, got.Get("Authorization"))

	tr.setDefaultHeader("Authorization", "Bearer tok")
	_, err = tr.get(context.Background(), "probe", "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
}

func TestTransportStatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantErr   bool
		wantAPIEr bool
	}{
		{name: "ok", status: 200},
		{name: "created", status: 201},
		{name: "redirect_range", status: 304},
		{name: "bad_request", status: 400, wantErr: true, wantAPIEr: true},
		{name: "server_error", status: 500, wantErr: true, wantAPIEr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doer := doerFunc(func(req *http.Request) (*http.Response, error) {
				rec := httptest.NewRecorder()
				rec.WriteHeader(tt.status)
				return rec.Result(), nil
			})
			obs := &recordingObserver{}
			tr := newTransport("http://example.invalid", DefaultUserAgent, doer, nopLogger{}, obs)

			_, err := tr.get(context.Background(), "op", "/x", nil)
			if !tt.wantErr {
				assert.NoError(t, err)
			} else {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.StatusCode)
			}
			assert.Equal(t, []int{tt.status}, obs.codes)
		})
	}
}

func TestTransportNetworkFailure(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	obs := &recordingObserver{}
	tr := newTransport("http://example.invalid", DefaultUserAgent, doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, cause
	}), nopLogger{}, obs)

	_, err := tr.post(context.Background(), "login", loginEndpoint, []byte(`{}`))

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "POST", transportErr.Method)
	assert.Equal(t, "http://example.invalid"+loginEndpoint, transportErr.URL)
	assert.Equal(t, 0, StatusCode(err))
	assert.Equal(t, []string{"login POST"}, obs.calls)
	assert.Equal(t, []int{0}, obs.codes)
}

func TestTransportGetSendsNoBody(t *testing.T) {
	t.Parallel()

	var sawBody bool
	tr := newTransport("http://example.invalid", DefaultUserAgent, doerFunc(func(req *http.Request) (*http.Response, error) {
		sawBody = req.Body != nil && req.Body != http.NoBody
		assert.Equal(t, "b", req.URL.Query().Get("a"))
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusOK)
		return rec.Result(), nil
	}), nopLogger{}, nopObserver{})

	_, err := tr.send(context.Background(), "op", http.MethodGet, "/x", nil, map[string]string{"a": "b"}, []byte(`{"ignored":true}`))
	require.NoError(t, err)
	assert.False(t, sawBody)
}
