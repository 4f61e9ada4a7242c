package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	JWTSecretEnvVar = "GUILDSITE_JWT_SECRET"

	// InsecureDevJWTSecret is only ever used outside production, when no secret is configured.
	// Tokens signed with it can be forged by anyone who has read this file.
	InsecureDevJWTSecret = "guildsite-insecure-dev-secret-change-me"

	minJWTSecretLen = 32
)

var ErrMissingJWTSecret = errors.New("jwt secret not set")

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresUser    string `toml:"postgres_user"`
	PostgresSSLMode string `toml:"postgres_ssl_mode"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// admin session cookie
	SecureCookie   bool     `toml:"secure_cookie"`
	AllowedOrigins []string `toml:"allowed_origins"`

	// notifications
	AdminNotificationEmail string `toml:"admin_notification_email"`
}

type Toml struct {
	Development *Config
	Production  *Config
	Test        *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	var normalized string
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg, normalized = t.Development, EnvDevelopment
	case "prod", "production":
		cfg, normalized = t.Production, EnvProduction
	case "test":
		cfg, normalized = t.Test, EnvTest
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", normalized)
	}
	cfg.Environment = normalized
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", cfg.Environment, err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
		return errors.New("postgres host, port and db name are required")
	}
	if c.PrometheusMetricsPort == "" {
		return errors.New("prometheus metrics port is required")
	}
	if c.IsProduction() && !c.SecureCookie {
		log.Warnln("production config without secure_cookie, admin cookie will be sent over plain http")
	}
	return nil
}

// ResolveJWTSecret returns the token signing secret read through getenv.
// Production refuses to run without one. Development and test fall back to
// InsecureDevJWTSecret and say so loudly.
func ResolveJWTSecret(cfg *Config, getenv func(string) string) ([]byte, error) {
	secret := strings.TrimSpace(getenv(JWTSecretEnvVar))
	if secret != "" {
		if len(secret) < minJWTSecretLen {
			if cfg.IsProduction() {
				return nil, fmt.Errorf("%s must be at least %d characters", JWTSecretEnvVar, minJWTSecretLen)
			}
			log.Warnf("%s is shorter than %d characters", JWTSecretEnvVar, minJWTSecretLen)
		}
		return []byte(secret), nil
	}

	if cfg.IsProduction() {
		return nil, fmt.Errorf("%w: set %s", ErrMissingJWTSecret, JWTSecretEnvVar)
	}

	log.Warnf("!!! %s not set, signing admin sessions with the INSECURE built-in secret [env: %s]", JWTSecretEnvVar, cfg.Environment)
	return []byte(InsecureDevJWTSecret), nil
}
