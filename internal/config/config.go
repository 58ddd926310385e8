package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DevSecretKey signs sessions when SECRET_KEY is unset in development.
// It is public and must never be used in production.
const DevSecretKey = "dev-secret-key-change-me"

type Config struct {
	Port            string        `env:"PORT" env-default:"5000"`
	PostgresURL     string        `env:"POSTGRES_URL"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	SQLitePath      string        `env:"SQLITE_PATH" env-default:"appointments.db"`
	SecretKey       string        `env:"SECRET_KEY"`
	Env             string        `env:"APP_ENV" env-default:"development"`
	Vercel          string        `env:"VERCEL"`
	RequirePostgres bool          `env:"REQUIRE_POSTGRES" env-default:"false"`
	SessionTTL      time.Duration `env:"SESSION_TTL" env-default:"168h"`
	StaticDir       string        `env:"STATIC_DIR" env-default:"static"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Validate fills the development secret when allowed and rejects an
// unsigned production deployment.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		if !c.IsDevelopment() {
			return errors.New("config: SECRET_KEY is required outside development")
		}
		c.SecretKey = DevSecretKey
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}
	return nil
}

// DSN returns the networked store connection string, empty when the
// embedded store should be used.
func (c *Config) DSN() string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	return c.DatabaseURL
}

func (c *Config) UsesDevSecret() bool {
	return c.SecretKey == DevSecretKey
}

// SetupRequired reports whether the deployment needs Postgres but none is configured.
func (c *Config) SetupRequired() bool {
	return (c.Vercel != "" || c.RequirePostgres) && c.DSN() == ""
}
