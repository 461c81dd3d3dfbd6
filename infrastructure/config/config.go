package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

// Config holds all application configuration, parsed from the environment.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`
	Environment   string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	EnableCORS    bool   `env:"ENABLE_CORS" envDefault:"true"`

	// Document store
	AWSRegion       string `env:"AWS_REGION" envDefault:"us-west-2"`
	Table           string `env:"TABLE_NAME" envDefault:"snapgram"`
	EntityIndexName string `env:"ENTITY_INDEX_NAME" envDefault:"EntityIndex"`
	AuthorIndexName string `env:"AUTHOR_INDEX_NAME" envDefault:"AuthorIndex"`

	Auth AuthConfig `envPrefix:"AUTH_"`
	Blob BlobConfig `envPrefix:"S3_"`
}

// AuthConfig configures the identity-provider integration.
type AuthConfig struct {
	IssuerURL    string `env:"ISSUER_URL"`
	Audience     string `env:"AUDIENCE"`
	CookieName   string `env:"COOKIE_NAME" envDefault:"token"`
	CookieMaxAge int    `env:"COOKIE_MAX_AGE" envDefault:"3600"`
}

// BlobConfig configures the object storage used for image uploads.
type BlobConfig struct {
	Endpoint      string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	Bucket        string `env:"BUCKET" envDefault:"snapgram"`
	UseSSL        bool   `env:"USE_SSL" envDefault:"false"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present.
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.Auth.IssuerURL == "" {
			return fmt.Errorf("AUTH_ISSUER_URL is required in production")
		}
		if c.Auth.Audience == "" {
			return fmt.Errorf("AUTH_AUDIENCE is required in production")
		}
		if c.Table == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.Blob.AccessKey == "" || c.Blob.SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
