package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/systmms/infisical-go/internal/config"
	"github.com/systmms/infisical-go/internal/credstore"
	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/internal/logging"
	"github.com/systmms/infisical-go/internal/metrics"
	"github.com/systmms/infisical-go/pkg/infisical"
)

// Runtime is the state shared by all commands of one invocation.
type Runtime struct {
	Config *config.Config
	Logger *logging.Logger

	// Flag overrides; empty means unset.
	Host        string
	ProjectID   string
	Environment string

	// Env is read for configuration overrides and receives exported secrets.
	Env infisical.EnvStore
	// Environ returns the base environment of child processes started by run.
	Environ func() []string

	Creds      *credstore.Store
	HTTPClient infisical.HTTPDoer

	Registry *prometheus.Registry
	observer *metrics.RequestMetrics
}

// NewRuntime returns a runtime bound to the process environment and the OS keyring.
func NewRuntime() *Runtime {
	return &Runtime{
		Config:   &config.Config{Path: config.DefaultPath},
		Logger:   logging.New(false, false),
		Env:      infisical.OSEnv{},
		Environ:  os.Environ,
		Creds:    credstore.New(credstore.DefaultService),
		Registry: prometheus.NewRegistry(),
	}
}

func (rt *Runtime) requestMetrics() *metrics.RequestMetrics {
	if rt.observer == nil {
		rt.observer = metrics.NewRequestMetrics(rt.Registry)
	}
	return rt.observer
}

// settings loads the configuration file and applies flag overrides.
func (rt *Runtime) settings() (config.Settings, error) {
	if rt.Config.Definition == nil {
		if err := rt.Config.Load(); err != nil {
			return config.Settings{}, err
		}
	}
	s, err := rt.Config.Settings(rt.Env)
	if err != nil {
		return config.Settings{}, err
	}
	if rt.Host != "" {
		s.Host = rt.Host
	}
	if rt.ProjectID != "" {
		s.ProjectID = rt.ProjectID
	}
	if rt.Environment != "" {
		s.Environment = rt.Environment
	}
	s.Host = infisical.NormalizeHostURL(s.Host)
	return s, nil
}

// credentials resolves the machine identity: environment and configuration
// file first, then the keyring entry saved by login.
func (rt *Runtime) credentials(s config.Settings) (string, string, error) {
	if s.ClientID != "" && s.ClientSecret != "" {
		return s.ClientID, s.ClientSecret, nil
	}

	creds, err := rt.Creds.Load(s.Host)
	if err == nil {
		rt.Logger.Debug("using credentials stored in keyring for %s", s.Host)
		return creds.ClientID, creds.ClientSecret, nil
	}
	if !errors.Is(err, credstore.ErrNotFound) {
		rt.Logger.Debug("keyring lookup failed: %v", err)
	}

	return "", "", dserrors.UserError{
		Message:    "No machine identity credentials found",
		Suggestion: fmt.Sprintf("Run 'infisical-go login' or set %s and %s", infisical.EnvClientID, infisical.EnvClientSecret),
	}
}

// connect logs in with the given credentials.
func (rt *Runtime) connect(ctx context.Context, s config.Settings, clientID, clientSecret string) (*infisical.Client, error) {
	rt.Logger.Mask(clientSecret)
	rt.Logger.Debug("Logging in to %s as %s (secret %s)", s.Host, clientID, logging.Secret(clientSecret))

	auth, err := infisical.NewAuthenticationBuilder().WithUniversalAuth(clientID, clientSecret).Build()
	if err != nil {
		return nil, dserrors.InfisicalError("login", err)
	}
	cfg, err := infisical.NewConfigBuilder().
		WithHostURL(s.Host).
		WithAuthentication(auth).
		WithTimeout(s.Timeout).
		Build()
	if err != nil {
		return nil, dserrors.ConfigError{Field: "host", Value: s.Host, Message: err.Error()}
	}

	opts := []infisical.Option{
		infisical.WithLogger(rt.Logger),
		infisical.WithEnvStore(rt.Env),
		infisical.WithRequestObserver(rt.requestMetrics()),
	}
	if rt.HTTPClient != nil {
		opts = append(opts, infisical.WithHTTPClient(rt.HTTPClient))
	}

	client, err := infisical.NewClient(ctx, cfg, opts...)
	if err != nil {
		return nil, dserrors.InfisicalError("login", err)
	}
	return client, nil
}

// client returns an authenticated client and the effective settings.
func (rt *Runtime) client(ctx context.Context) (*infisical.Client, config.Settings, error) {
	s, err := rt.settings()
	if err != nil {
		return nil, config.Settings{}, err
	}
	if s.ProjectID == "" || s.Environment == "" {
		return nil, s, dserrors.UserError{
			Message:    "Project and environment are required",
			Suggestion: fmt.Sprintf("Pass --project and --env, set %s and %s, or add project_id and environment to %s", config.EnvProjectID, config.EnvEnvironment, rt.Config.Path),
		}
	}

	clientID, clientSecret, err := rt.credentials(s)
	if err != nil {
		return nil, s, err
	}
	client, err := rt.connect(ctx, s, clientID, clientSecret)
	if err != nil {
		return nil, s, err
	}
	return client, s, nil
}
