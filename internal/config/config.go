package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. It is parsed once at startup and
// passed by value to the components that need it.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	Port        int    `env:"PORT" envDefault:"8000"`

	TokenSecret        string        `env:"SECRET_KEY,required"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	ActivationTokenTTL time.Duration `env:"ACTIVATION_TOKEN_TTL" envDefault:"24h"`
	ResetTokenTTL      time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host      string `env:"HOST" envDefault:"smtp.mail.ru"`
	Port      int    `env:"PORT" envDefault:"587"`
	User      string `env:"USER"`
	Password  string `env:"PASSWORD"`
	FromEmail string `env:"FROM_EMAIL"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
