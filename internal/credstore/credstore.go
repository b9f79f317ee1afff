// Package credstore keeps machine identity credentials in the OS keyring.
package credstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service name used by the CLI.
const DefaultService = "infisical-go"

// ErrNotFound is returned by Load when no credentials are stored.
var ErrNotFound = errors.New("no stored credentials")

// Credentials is a machine identity stored for one host.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Store reads and writes credentials keyed by host URL.
type Store struct {
	service string
}

// New returns a store using the given keyring service name.
func New(service string) *Store {
	if service == "" {
		service = DefaultService
	}
	return &Store{service: service}
}

// Save stores creds for host, replacing any previous entry.
func (s *Store) Save(host string, creds Credentials) error {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return errors.New("client ID and client secret are required")
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := keyring.Set(s.service, host, string(data)); err != nil {
		return fmt.Errorf("store credentials for %s: %w", host, err)
	}
	return nil
}

// Load returns the credentials stored for host.
func (s *Store) Load(host string) (Credentials, error) {
	data, err := keyring.Get(s.service, host)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, fmt.Errorf("read credentials for %s: %w", host, err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials for %s: %w", host, err)
	}
	return creds, nil
}

// Delete removes the credentials for host. Deleting absent credentials
// returns ErrNotFound.
func (s *Store) Delete(host string) error {
	if err := keyring.Delete(s.service, host); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete credentials for %s: %w", host, err)
	}
	return nil
}
