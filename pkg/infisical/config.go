package infisical

import (
	"strings"
	"time"

	"github.com/systmms/infisical-go/internal/secure"
)

// AuthStrategy identifies how a client logs in.
type AuthStrategy int

const (
	// AuthStrategyNone is the zero value; NewClient rejects it.
	AuthStrategyNone AuthStrategy = iota
	// AuthStrategyUniversalAuth logs in with a machine identity client ID and secret.
	AuthStrategyUniversalAuth
)

func (s AuthStrategy) String() string {
	switch s {
	case AuthStrategyUniversalAuth:
		return "universal-auth"
	default:
		return "none"
	}
}

// Authentication holds the credentials exchanged for an access token.
// The client secret stays sealed in memory until login.
type Authentication struct {
	strategy     AuthStrategy
	clientID     string
	clientSecret *secure.Sealed
}

// Strategy returns the login strategy.
func (a Authentication) Strategy() AuthStrategy { return a.strategy }

// ClientID returns the machine identity client ID.
func (a Authentication) ClientID() string { return a.clientID }

// AuthenticationBuilder builds Authentication.
type AuthenticationBuilder struct {
	strategy     AuthStrategy
	clientID     string
	clientSecret string
}

// NewAuthenticationBuilder returns an empty builder.
func NewAuthenticationBuilder() *AuthenticationBuilder {
	return &AuthenticationBuilder{}
}

// WithUniversalAuth uses an explicit machine identity client ID and secret.
func (b *AuthenticationBuilder) WithUniversalAuth(clientID, clientSecret string) *AuthenticationBuilder {
	b.strategy = AuthStrategyUniversalAuth
	b.clientID = clientID
	b.clientSecret = clientSecret
	return b
}

// WithUniversalAuthFromEnv reads the client ID and secret from
// INFISICAL_MACHINE_IDENTITY_CLIENT_ID and INFISICAL_MACHINE_IDENTITY_CLIENT_SECRET.
// A nil env reads the process environment.
func (b *AuthenticationBuilder) WithUniversalAuthFromEnv(env EnvStore) *AuthenticationBuilder {
	if env == nil {
		env = OSEnv{}
	}
	clientID, _ := env.Lookup(EnvClientID)
	clientSecret, _ := env.Lookup(EnvClientSecret)
	return b.WithUniversalAuth(clientID, clientSecret)
}

// Build validates the credentials and seals the client secret.
func (b *AuthenticationBuilder) Build() (Authentication, error) {
	if b.strategy != AuthStrategyUniversalAuth {
		return Authentication{}, &OptionsError{Options: "Authentication", Field: "strategy", Message: "no authentication strategy configured"}
	}
	if b.clientID == "" {
		return Authentication{}, &OptionsError{Options: "Authentication", Field: "clientId", Message: "Client ID cannot be empty"}
	}
	if b.clientSecret == "" {
		return Authentication{}, &OptionsError{Options: "Authentication", Field: "clientSecret", Message: "Client Secret cannot be empty"}
	}
	return Authentication{
		strategy:     b.strategy,
		clientID:     b.clientID,
		clientSecret: secure.Seal(b.clientSecret),
	}, nil
}

// Config is the connection configuration of a Client.
type Config struct {
	hostURL        string
	authentication Authentication
	timeout        time.Duration
	userAgent      string
}

// HostURL returns the normalized host URL, without a trailing "/api" or "/".
func (c Config) HostURL() string { return c.hostURL }

// Authentication returns the login credentials.
func (c Config) Authentication() Authentication { return c.authentication }

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration { return c.timeout }

// UserAgent returns the User-Agent header value.
func (c Config) UserAgent() string { return c.userAgent }

// ConfigBuilder builds Config.
type ConfigBuilder struct {
	cfg Config
}

// NewConfigBuilder returns a builder with the default timeout and user agent.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: Config{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}}
}

// WithHostURL sets the Infisical host, e.g. "https://app.infisical.com".
func (b *ConfigBuilder) WithHostURL(u string) *ConfigBuilder {
	b.cfg.hostURL = u
	return b
}

func (b *ConfigBuilder) WithAuthentication(a Authentication) *ConfigBuilder {
	b.cfg.authentication = a
	return b
}

// WithTimeout sets the timeout applied to every request. Non-positive values
// keep the default.
func (b *ConfigBuilder) WithTimeout(d time.Duration) *ConfigBuilder {
	if d > 0 {
		b.cfg.timeout = d
	}
	return b
}

func (b *ConfigBuilder) WithUserAgent(ua string) *ConfigBuilder {
	if ua != "" {
		b.cfg.userAgent = ua
	}
	return b
}

// Build validates the host URL and normalizes it.
func (b *ConfigBuilder) Build() (Config, error) {
	if b.cfg.hostURL == "" {
		return Config{}, &OptionsError{Options: "Config", Field: "hostUrl", Message: "Config URL cannot be empty"}
	}
	out := b.cfg
	out.hostURL = NormalizeHostURL(b.cfg.hostURL)
	return out, nil
}

// NormalizeHostURL strips one trailing "/api" and then one trailing "/".
func NormalizeHostURL(u string) string {
	u = strings.TrimSuffix(u, "/api")
	return strings.TrimSuffix(u, "/")
}
