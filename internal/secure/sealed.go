package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned by Reveal after Destroy.
var ErrDestroyed = errors.New("sealed value destroyed")

// Sealed is an encrypted in-memory string.
// The zero value and values sealed from "" reveal as "".
type Sealed struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// Seal copies value into a new enclave.
func Seal(value string) *Sealed {
	if value == "" {
		return &Sealed{}
	}
	// NewEnclave wipes its input, so hand it a private copy.
	return &Sealed{enclave: memguard.NewEnclave([]byte(value))}
}

// IsEmpty reports whether the value was sealed from "".
// A destroyed value is not empty; Reveal reports ErrDestroyed for it.
func (s *Sealed) IsEmpty() bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enclave == nil && !s.destroyed
}

// Reveal decrypts the value.
func (s *Sealed) Reveal() (string, error) {
	if s == nil {
		return "", nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		return "", ErrDestroyed
	}
	if s.enclave == nil {
		return "", nil
	}

	locked, err := s.enclave.Open()
	if err != nil {
		return "", err
	}
	defer locked.Destroy()
	return string(locked.Bytes()), nil
}

// Destroy drops the enclave. It is idempotent.
func (s *Sealed) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enclave = nil
	s.destroyed = true
}

// String never exposes the sealed value.
func (s *Sealed) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v.
func (s *Sealed) GoString() string {
	return "[REDACTED]"
}
