package fakes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/systmms/infisical-go/pkg/infisical"
)

const rawSecretsPrefix = "/api/v3/secrets/raw"

// RecordedRequest is one request received by FakeInfisicalServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is the decoded JSON body, nil when the request had none.
	Body map[string]interface{}
}

// CannedResponse replaces the normal handling of a method and path.
type CannedResponse struct {
	Status int
	Body   string
}

// FakeInfisicalServer is an in-process Infisical API. It implements Universal
// Auth login and the raw secrets endpoints closely enough to exercise the
// client end to end.
type FakeInfisicalServer struct {
	*httptest.Server

	// ClientID and ClientSecret are the only accepted login credentials.
	ClientID     string
	ClientSecret string

	// Token is the access token issued on login and required afterwards.
	Token string

	mu       sync.Mutex
	secrets  []infisical.Secret
	imports  map[string][]infisical.Import
	canned   map[string]CannedResponse
	requests []RecordedRequest
	logins   int
	nextID   int
}

// NewFakeInfisicalServer starts a fake server. Callers must Close it.
func NewFakeInfisicalServer() *FakeInfisicalServer {
	f := &FakeInfisicalServer{
		ClientID:     "fake-client-id",
		ClientSecret: "fake-client-secret",
		Token:        "fake-access-token",
		imports:      make(map[string][]infisical.Import),
		canned:       make(map[string]CannedResponse),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

// SetSecret stores a shared secret under environment and path, replacing any
// secret with the same key there.
func (f *FakeInfisicalServer) SetSecret(environment, secretPath, key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexLocked(environment, secretPath, key, infisical.SecretTypeShared); i >= 0 {
		f.secrets[i].SecretValue = value
		f.secrets[i].Version++
		return
	}
	f.secrets = append(f.secrets, f.newSecretLocked(environment, secretPath, key, value, infisical.SecretTypeShared))
}

// SetImports sets the imports returned when listing environment and path.
func (f *FakeInfisicalServer) SetImports(environment, secretPath string, imports ...infisical.Import) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports[folderKey(environment, secretPath)] = imports
}

// RespondWith makes every request matching method and path return the given
// status and body.
func (f *FakeInfisicalServer) RespondWith(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canned[method+" "+path] = CannedResponse{Status: status, Body: body}
}

// Requests returns a copy of every request received so far.
func (f *FakeInfisicalServer) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// LastRequest returns the most recent request.
func (f *FakeInfisicalServer) LastRequest() (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

// LoginCount returns the number of successful logins.
func (f *FakeInfisicalServer) LoginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

// Lookup returns a stored shared secret.
func (f *FakeInfisicalServer) Lookup(environment, secretPath, key string) (infisical.Secret, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(environment, secretPath, key, infisical.SecretTypeShared)
	if i < 0 {
		return infisical.Secret{}, false
	}
	return f.secrets[i], true
}

func (f *FakeInfisicalServer) handle(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		var body map[string]interface{}
		if err := json.Unmarshal(data, &body); err != nil {
			f.record(rec)
			f.writeError(w, http.StatusBadRequest, "malformed JSON body")
			return
		}
		rec.Body = body
	}
	f.record(rec)

	f.mu.Lock()
	canned, ok := f.canned[r.Method+" "+r.URL.Path]
	f.mu.Unlock()
	if ok {
		w.WriteHeader(canned.Status)
		_, _ = io.WriteString(w, canned.Body)
		return
	}

	if r.URL.Path == "/api/v1/auth/universal-auth/login" && r.Method == http.MethodPost {
		f.handleLogin(w, rec)
		return
	}

	if !strings.HasPrefix(r.URL.Path, rawSecretsPrefix) {
		f.writeError(w, http.StatusNotFound, "Route not found")
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+f.Token {
		f.writeError(w, http.StatusUnauthorized, "Token missing or invalid")
		return
	}

	key := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, rawSecretsPrefix), "/")
	switch {
	case key == "" && r.Method == http.MethodGet:
		f.handleList(w, rec)
	case key != "" && r.Method == http.MethodGet:
		f.handleGet(w, key, rec)
	case key != "" && r.Method == http.MethodPost:
		f.handleCreate(w, key, rec)
	case key != "" && r.Method == http.MethodPatch:
		f.handleUpdate(w, key, rec)
	case key != "" && r.Method == http.MethodDelete:
		f.handleDelete(w, key, rec)
	default:
		f.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (f *FakeInfisicalServer) handleLogin(w http.ResponseWriter, rec RecordedRequest) {
	if str(rec.Body, "clientId") != f.ClientID || str(rec.Body, "clientSecret") != f.ClientSecret {
		f.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	f.mu.Lock()
	f.logins++
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, infisical.MachineIdentityLoginResponse{
		AccessToken:       f.Token,
		ExpiresIn:         7200,
		AccessTokenMaxTTL: 43200,
		TokenType:         "Bearer",
	})
}

func (f *FakeInfisicalServer) handleList(w http.ResponseWriter, rec RecordedRequest) {
	env := rec.Query.Get("environment")
	path := queryPath(rec.Query)
	recursive := rec.Query.Get("recursive") == "true"

	var tags map[string]bool
	if slugs := rec.Query.Get("tagSlugs"); slugs != "" {
		tags = make(map[string]bool)
		for _, s := range strings.Split(slugs, ",") {
			tags[s] = true
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	secrets := make([]infisical.Secret, 0)
	for _, s := range f.secrets {
		if s.Environment != env || !inFolder(s.SecretPath, path, recursive) {
			continue
		}
		if tags != nil && !tags[s.SecretKey] {
			continue
		}
		secrets = append(secrets, s)
	}

	resp := map[string]interface{}{"secrets": secrets}
	if rec.Query.Get("include_imports") == "true" {
		if imports, ok := f.imports[folderKey(env, path)]; ok {
			resp["imports"] = imports
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (f *FakeInfisicalServer) handleGet(w http.ResponseWriter, key string, rec RecordedRequest) {
	secretType := rec.Query.Get("type")
	if secretType == "" {
		secretType = infisical.SecretTypeShared
	}
	f.mu.Lock()
	i := f.indexLocked(rec.Query.Get("environment"), queryPath(rec.Query), key, secretType)
	var secret infisical.Secret
	if i >= 0 {
		secret = f.secrets[i]
	}
	f.mu.Unlock()

	if i < 0 {
		f.writeError(w, http.StatusNotFound, fmt.Sprintf("Secret with name '%s' not found", key))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"secret": secret})
}

func (f *FakeInfisicalServer) handleCreate(w http.ResponseWriter, key string, rec RecordedRequest) {
	env := str(rec.Body, "environment")
	path := bodyPath(rec.Body)

	f.mu.Lock()
	if f.indexLocked(env, path, key, infisical.SecretTypeShared) >= 0 {
		f.mu.Unlock()
		f.writeError(w, http.StatusBadRequest, "Secret already exist")
		return
	}
	secret := f.newSecretLocked(env, path, key, str(rec.Body, "secretValue"), infisical.SecretTypeShared)
	secret.Workspace = str(rec.Body, "workspaceId")
	f.secrets = append(f.secrets, secret)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"secret": secret})
}

func (f *FakeInfisicalServer) handleUpdate(w http.ResponseWriter, key string, rec RecordedRequest) {
	secretType := str(rec.Body, "type")
	if secretType == "" {
		secretType = infisical.SecretTypeShared
	}

	f.mu.Lock()
	i := f.indexLocked(str(rec.Body, "environment"), bodyPath(rec.Body), key, secretType)
	if i < 0 {
		f.mu.Unlock()
		f.writeError(w, http.StatusNotFound, fmt.Sprintf("Secret with name '%s' not found", key))
		return
	}
	if v, ok := rec.Body["secretValue"].(string); ok {
		f.secrets[i].SecretValue = v
	}
	if name := str(rec.Body, "newSecretName"); name != "" {
		f.secrets[i].SecretKey = name
	}
	f.secrets[i].Version++
	secret := f.secrets[i]
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"secret": secret})
}

func (f *FakeInfisicalServer) handleDelete(w http.ResponseWriter, key string, rec RecordedRequest) {
	secretType := str(rec.Body, "type")
	if secretType == "" {
		secretType = infisical.SecretTypeShared
	}

	f.mu.Lock()
	i := f.indexLocked(str(rec.Body, "environment"), bodyPath(rec.Body), key, secretType)
	if i < 0 {
		f.mu.Unlock()
		f.writeError(w, http.StatusNotFound, fmt.Sprintf("Secret with name '%s' not found", key))
		return
	}
	secret := f.secrets[i]
	f.secrets = append(f.secrets[:i], f.secrets[i+1:]...)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"secret": secret})
}

func (f *FakeInfisicalServer) record(rec RecordedRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, rec)
}

func (f *FakeInfisicalServer) writeError(w http.ResponseWriter, status int, message string) {
	f.mu.Lock()
	f.nextID++
	reqID := fmt.Sprintf("req-%d", f.nextID)
	f.mu.Unlock()
	writeJSON(w, status, map[string]interface{}{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
		"reqId":      reqID,
	})
}

func (f *FakeInfisicalServer) indexLocked(environment, secretPath, key, secretType string) int {
	for i, s := range f.secrets {
		if s.Environment == environment && s.SecretPath == secretPath && s.SecretKey == key && s.Type == secretType {
			return i
		}
	}
	return -1
}

func (f *FakeInfisicalServer) newSecretLocked(environment, secretPath, key, value, secretType string) infisical.Secret {
	f.nextID++
	return infisical.Secret{
		ID:          fmt.Sprintf("secret-%d", f.nextID),
		Workspace:   "fake-project",
		Environment: environment,
		Version:     1,
		Type:        secretType,
		SecretKey:   key,
		SecretValue: value,
		SecretPath:  secretPath,
	}
}

func folderKey(environment, secretPath string) string {
	return environment + ":" + secretPath
}

func inFolder(secretPath, folder string, recursive bool) bool {
	if secretPath == folder {
		return true
	}
	if !recursive {
		return false
	}
	prefix := strings.TrimSuffix(folder, "/") + "/"
	return strings.HasPrefix(secretPath, prefix)
}

func queryPath(q url.Values) string {
	if p := q.Get("secretPath"); p != "" {
		return p
	}
	return "/"
}

func bodyPath(body map[string]interface{}) string {
	if p := str(body, "secretPath"); p != "" {
		return p
	}
	return "/"
}

func str(body map[string]interface{}, key string) string {
	v, _ := body[key].(string)
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
