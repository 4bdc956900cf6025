// Package config loads the server configuration from a YAML file with
// ${VAR_NAME} environment variable expansion, applies defaults, and
// validates it. Configuration is loaded once at process start and is
// read-only afterwards.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds listener addresses
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// DatabaseConfig holds the user store connection
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig holds authentication configuration. SigningKey is the single
// process-wide secret; the process refuses to start without it.
type AuthConfig struct {
	SigningKey   string   `yaml:"signing_key"`
	TokenTTL     int      `yaml:"token_ttl"`
	TokenLookup  string   `yaml:"token_lookup"`
	AuthScheme   string   `yaml:"auth_scheme"`
	ContextKey   string   `yaml:"context_key"`
	Issuer       string   `yaml:"issuer"`
	PublicRoutes []string `yaml:"public_routes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SeedConfig describes the initial user provisioned at boot when the store
// is empty. Meant for development and first-run bootstrap.
type SeedConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	FullName string `yaml:"full_name"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded
// before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse parses raw YAML configuration content
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings, which
// validation then catches for required fields.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "file::memory:?cache=shared"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 3600
	}
	if c.Auth.TokenLookup == "" {
		c.Auth.TokenLookup = "header:Authorization"
	}
	if c.Auth.AuthScheme == "" {
		c.Auth.AuthScheme = "Bearer"
	}
	if c.Auth.ContextKey == "" {
		c.Auth.ContextKey = "user"
	}
	if len(c.Auth.PublicRoutes) == 0 {
		c.Auth.PublicRoutes = []string{"/auth/login", "/assets/*", "/docs/*"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that all required configuration fields are present.
// A missing signing key is a fatal configuration error: the process must
// not come up without one.
func (c *Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}

	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %d", c.Auth.TokenTTL)
	}

	return nil
}

// GetSigningKey returns the signing secret. Callers must never log it.
func (c *Config) GetSigningKey() string { return c.Auth.SigningKey }

func (c *Config) GetSigningMethod() string { return "HS256" }
func (c *Config) GetContextKey() string    { return c.Auth.ContextKey }
func (c *Config) GetTokenTTL() int         { return c.Auth.TokenTTL }
func (c *Config) GetTokenLookup() string   { return c.Auth.TokenLookup }
func (c *Config) GetAuthScheme() string    { return c.Auth.AuthScheme }
func (c *Config) GetIssuer() string        { return c.Auth.Issuer }

// Masked returns a copy safe for dumping to logs: secrets are redacted.
func (c *Config) Masked() Config {
	out := *c
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = "********"
	}
	if out.Seed.Password != "" {
		out.Seed.Password = "********"
	}
	return out
}
