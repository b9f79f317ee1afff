// Package secure keeps credentials sealed in memory until they are needed.
//
// Values are stored in a memguard enclave: encrypted at rest
// (XSalsa20Poly1305), excluded from swap where mlock is available, and only
// decrypted into a locked buffer for the duration of a Reveal call.
//
// The client secret of a machine identity is the main user. It is sealed when
// the authentication settings are built and revealed once, for the login
// request.
//
// # Platform Behavior
//
//   - Linux: mlock requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: works out of the box
//   - Windows: uses VirtualLock
//
// It does NOT protect against attackers with access to the running process
// or against the plaintext copies net/http and encoding/json make while the
// login request is in flight.
package secure
