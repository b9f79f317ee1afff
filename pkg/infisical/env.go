package infisical

import (
	"os"
	"sync"
)

// Environment variables read by AuthenticationBuilder.WithUniversalAuthFromEnv.
const (
	EnvClientID     = "INFISICAL_MACHINE_IDENTITY_CLIENT_ID"
	EnvClientSecret = "INFISICAL_MACHINE_IDENTITY_CLIENT_SECRET"
)

// EnvStore is the environment variable table that secrets are exported to.
type EnvStore interface {
	// Lookup returns the value of key and whether it is set.
	Lookup(key string) (string, bool)
	// SetIfAbsent sets key to value only when key is not already set.
	// It reports whether the value was written.
	SetIfAbsent(key, value string) (bool, error)
}

// OSEnv is the process environment.
//
// The check-then-set in SetIfAbsent is not atomic with respect to other
// writers of the process environment.
type OSEnv struct{}

// Lookup implements EnvStore.
func (OSEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// SetIfAbsent implements EnvStore.
func (OSEnv) SetIfAbsent(key, value string) (bool, error) {
	if _, ok := os.LookupEnv(key); ok {
		return false, nil
	}
	if err := os.Setenv(key, value); err != nil {
		return false, err
	}
	return true, nil
}

// MapEnv is an in-memory EnvStore, safe for concurrent use.
type MapEnv struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnv returns a MapEnv seeded with a copy of seed.
func NewMapEnv(seed map[string]string) *MapEnv {
	vars := make(map[string]string, len(seed))
	for k, v := range seed {
		vars[k] = v
	}
	return &MapEnv{vars: vars}
}

// Lookup implements EnvStore.
func (m *MapEnv) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

// SetIfAbsent implements EnvStore.
func (m *MapEnv) SetIfAbsent(key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	if _, ok := m.vars[key]; ok {
		return false, nil
	}
	m.vars[key] = value
	return true, nil
}

// Snapshot returns a copy of all variables.
func (m *MapEnv) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out
}
