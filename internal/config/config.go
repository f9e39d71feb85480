package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the application configuration, loaded from environment
// variables.
type Config struct {
	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":8080"`
	MongoURI       string `env:"MONGO_URI"`
	MongoDatabase  string `env:"MONGO_DATABASE" envDefault:"job_portal"`
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// PasswordResetURL is the frontend page the emailed reset link points at;
	// the token is appended as a query parameter.
	PasswordResetURL string `env:"PASSWORD_RESET_URL" envDefault:"http://localhost:3000/reset-password"`

	Token TokenConfig
}

// TokenConfig holds access token settings.
type TokenConfig struct {
	Secret    string        `env:"TOKEN_SECRET"`
	ExpiresIn time.Duration `env:"TOKEN_EXPIRES_IN" envDefault:"24h"`
	Issuer    string        `env:"TOKEN_ISSUER" envDefault:"job-portal-api"`

	PasswordResetSecret    string        `env:"PASSWORD_RESET_TOKEN_SECRET"`
	PasswordResetExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"30m"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.Token.PasswordResetSecret == "" {
		return fmt.Errorf("missing PASSWORD_RESET_TOKEN_SECRET environment variable")
	}

	return nil
}
