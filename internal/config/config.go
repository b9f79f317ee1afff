package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/infisical-go/internal/errors"
	"github.com/systmms/infisical-go/internal/logging"
	"github.com/systmms/infisical-go/pkg/infisical"
)

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "infisical.yaml"

// DefaultHost is the Infisical cloud API.
const DefaultHost = "https://app.infisical.com"

// Environment variables overriding the configuration file.
const (
	EnvHost        = "INFISICAL_HOST"
	EnvProjectID   = "INFISICAL_PROJECT_ID"
	EnvEnvironment = "INFISICAL_ENVIRONMENT"
)

//go:embed schema/config.schema.json
var schemaJSON string

// Config holds the runtime configuration
type Config struct {
	Path string
	// Explicit is set when the path was chosen by the user; a missing file is
	// then an error instead of an empty configuration.
	Explicit   bool
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the infisical.yaml structure
type Definition struct {
	Version     int    `yaml:"version,omitempty"`
	Host        string `yaml:"host,omitempty"`
	ProjectID   string `yaml:"project_id,omitempty"`
	Environment string `yaml:"environment,omitempty"`
	SecretPath  string `yaml:"secret_path,omitempty"`
	Timeout     string `yaml:"timeout,omitempty"`
	Auth        Auth   `yaml:"auth,omitempty"`
}

// Auth holds machine identity credentials. Storing the secret in the file is
// supported but the keyring or the environment is preferred.
type Auth struct {
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
}

// Settings is the effective configuration after defaults and environment
// overrides have been applied.
type Settings struct {
	Host         string
	ProjectID    string
	Environment  string
	SecretPath   string
	Timeout      time.Duration
	ClientID     string
	ClientSecret string
}

// Load reads, validates and parses the configuration file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.Explicit {
				return dserrors.ConfigError{
					Field:      "path",
					Value:      c.Path,
					Message:    "configuration file not found",
					Suggestion: "Check the --config path or omit it to use environment variables only",
				}
			}
			c.debug("no configuration file at %s, using defaults", c.Path)
			c.Definition = &Definition{}
			return nil
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if err := validate(raw); err != nil {
		return err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid configuration file",
			Suggestion: err.Error(),
		}
	}

	if def.Auth.ClientSecret != "" && c.Logger != nil {
		c.Logger.Mask(def.Auth.ClientSecret)
		c.Logger.Warn("%s contains a client secret; prefer 'infisical-go login' or %s", c.Path, infisical.EnvClientSecret)
	}

	c.debug("loaded configuration from %s", c.Path)
	c.Definition = &def
	return nil
}

// validate checks the parsed document against the embedded JSON schema.
func validate(raw map[string]interface{}) error {
	if raw == nil {
		return nil
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		first := result.Errors()[0]
		return dserrors.ConfigError{
			Field:      first.Field(),
			Value:      first.Value(),
			Message:    "schema validation failed:\n  - " + strings.Join(errorMessages, "\n  - "),
			Suggestion: "Allowed keys: version, host, project_id, environment, secret_path, timeout, auth.client_id, auth.client_secret",
		}
	}

	return nil
}

// Settings merges the file with defaults and the environment. Environment
// variables win over the file. A nil env reads the process environment.
func (c *Config) Settings(env infisical.EnvStore) (Settings, error) {
	if env == nil {
		env = infisical.OSEnv{}
	}
	def := c.Definition
	if def == nil {
		def = &Definition{}
	}

	s := Settings{
		Host:         firstNonEmpty(lookup(env, EnvHost), def.Host, DefaultHost),
		ProjectID:    firstNonEmpty(lookup(env, EnvProjectID), def.ProjectID),
		Environment:  firstNonEmpty(lookup(env, EnvEnvironment), def.Environment),
		SecretPath:   firstNonEmpty(def.SecretPath, infisical.DefaultSecretPath),
		Timeout:      infisical.DefaultTimeout,
		ClientID:     firstNonEmpty(lookup(env, infisical.EnvClientID), def.Auth.ClientID),
		ClientSecret: firstNonEmpty(lookup(env, infisical.EnvClientSecret), def.Auth.ClientSecret),
	}

	if def.Timeout != "" {
		d, err := time.ParseDuration(def.Timeout)
		if err != nil || d <= 0 {
			return Settings{}, dserrors.ConfigError{
				Field:      "timeout",
				Value:      def.Timeout,
				Message:    "invalid duration",
				Suggestion: "Use a positive Go duration such as '30s' or '2m'",
			}
		}
		s.Timeout = d
	}

	return s, nil
}

func (c *Config) debug(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(format, args...)
	}
}

func lookup(env infisical.EnvStore, key string) string {
	v, _ := env.Lookup(key)
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
