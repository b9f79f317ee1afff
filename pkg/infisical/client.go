package infisical

import (
	"context"
)

// Client is an authenticated connection to one Infisical host. Each Client
// keeps its own headers, so several clients with different identities can
// coexist in one process.
type Client struct {
	config  Config
	auth    *AuthClient
	secrets *SecretsClient
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	doer     HTTPDoer
	logger   Logger
	env      EnvStore
	observer RequestObserver
}

// WithHTTPClient replaces the default instrumented *http.Client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(o *clientOptions) {
		if doer != nil {
			o.doer = doer
		}
	}
}

// WithLogger sets the debug logger. The default discards output.
func WithLogger(logger Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEnvStore sets where ListSecrets exports secrets to. The default is the
// process environment.
func WithEnvStore(env EnvStore) Option {
	return func(o *clientOptions) {
		if env != nil {
			o.env = env
		}
	}
}

// WithRequestObserver registers an observer for every HTTP exchange.
func WithRequestObserver(observer RequestObserver) Option {
	return func(o *clientOptions) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// NewClient builds a client and logs in with the configured credentials.
// It returns no client when login fails; the error is an *AuthenticationError
// wrapping the *APIError or *TransportError that caused it.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if cfg.hostURL == "" {
		return nil, &OptionsError{Options: "Config", Field: "hostUrl", Message: "Config URL cannot be empty"}
	}
	if cfg.authentication.strategy == AuthStrategyNone {
		return nil, &OptionsError{Options: "Config", Field: "authentication", Message: "no authentication configured"}
	}

	o := clientOptions{
		logger:   nopLogger{},
		env:      OSEnv{},
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.doer == nil {
		o.doer = newDefaultHTTPClient(cfg.timeout)
	}

	t := newTransport(cfg.hostURL, cfg.userAgent, o.doer, o.logger, o.observer)
	c := &Client{
		config:  cfg,
		auth:    &AuthClient{transport: t},
		secrets: &SecretsClient{transport: t, env: o.env, logger: o.logger},
	}

	if _, err := c.auth.login(ctx, cfg.authentication); err != nil {
		o.logger.Debug("login to %s failed: %v", cfg.hostURL, err)
		return nil, &AuthenticationError{Err: err}
	}
	return c, nil
}

// Secrets returns the secrets API.
func (c *Client) Secrets() *SecretsClient { return c.secrets }

// Auth returns the authentication API.
func (c *Client) Auth() *AuthClient { return c.auth }

// Config returns the configuration the client was built with.
func (c *Client) Config() Config { return c.config }

// Close destroys the sealed client secret held by the client's Config.
// Requests keep using the access token obtained at login, but the Config
// can no longer be used to log in again. Close is idempotent.
func (c *Client) Close() {
	c.config.authentication.clientSecret.Destroy()
}
