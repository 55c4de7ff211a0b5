// Package config loads application configuration from a YAML file and
// USERDESK_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DevJWTSecret is used outside production when no secret is configured.
const DevJWTSecret = "userdesk-dev-secret-do-not-use-in-production"

// DefaultAdminPassword is the bootstrap admin password shipped in Default.
// Production refuses to seed an admin with it.
const DefaultAdminPassword = "1234"

const envPrefix = "USERDESK_"

// Config is the application configuration.
type Config struct {
	Environment string          `koanf:"environment"`
	Server      ServerConfig    `koanf:"server"`
	Log         LogConfig       `koanf:"log"`
	JWT         JWTConfig       `koanf:"jwt"`
	CORS        CORSConfig      `koanf:"cors"`
	Bootstrap   BootstrapConfig `koanf:"bootstrap"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	SecretKey     string        `koanf:"secret_key"`
	TokenDuration time.Duration `koanf:"token_duration"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// BootstrapConfig describes the admin user seeded at startup.
type BootstrapConfig struct {
	Enabled       bool   `koanf:"enabled"`
	AdminName     string `koanf:"admin_name"`
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Environment: EnvDevelopment,
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   20 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		JWT: JWTConfig{
			TokenDuration: time.Hour,
		},
		Bootstrap: BootstrapConfig{
			Enabled:       true,
			AdminName:     "admin",
			AdminEmail:    "admin@spsgroup.com.br",
			AdminPassword: DefaultAdminPassword,
		},
	}
}

// Load reads configuration from path (optional) and the environment.
// Environment variables use the USERDESK_ prefix and "__" between nesting
// levels, e.g. USERDESK_JWT__SECRET_KEY.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWT.SecretKey == "" && !cfg.IsProduction() {
		cfg.JWT.SecretKey = DevJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// UsesDevSecret reports whether tokens are signed with DevJWTSecret.
func (c *Config) UsesDevSecret() bool {
	return c.JWT.SecretKey == DevJWTSecret
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment))
	}

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port must not be empty"))
	}

	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("jwt.secret_key is required in production"))
	} else if c.IsProduction() && c.UsesDevSecret() {
		errs = append(errs, errors.New("jwt.secret_key must not be the development default in production"))
	}

	if c.JWT.TokenDuration <= 0 {
		errs = append(errs, errors.New("jwt.token_duration must be > 0"))
	}

	if c.Bootstrap.Enabled && (c.Bootstrap.AdminEmail == "" || c.Bootstrap.AdminPassword == "") {
		errs = append(errs, errors.New("bootstrap.admin_email and bootstrap.admin_password must not be empty"))
	}

	if c.IsProduction() && c.Bootstrap.Enabled && c.Bootstrap.AdminPassword == DefaultAdminPassword {
		errs = append(errs, errors.New("bootstrap.admin_password must not be the shipped default in production"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// envValue maps USERDESK_SERVER__METRICS_PORT to server.metrics_port.
func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if key == "cors.allowed_origins" {
		origins := strings.Split(value, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return key, origins
	}
	return key, value
}
