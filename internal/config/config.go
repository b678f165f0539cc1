package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppEnv         string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"PORT"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	NatsURL        string        `mapstructure:"NATS_URL"`
	NatsSubject    string        `mapstructure:"NATS_SUBJECT_PREFIX"`
	SentryDSN      string        `mapstructure:"SENTRY_DSN"`
	CORSOrigins    string        `mapstructure:"CORS_ORIGINS"`
}

var AppConfig *Config

var keys = []string{
	"APP_ENV", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL", "REQUEST_TIMEOUT",
	"NATS_URL", "NATS_SUBJECT_PREFIX", "SENTRY_DSN", "CORS_ORIGINS",
}

// LoadConfig loads the configuration from a .env file in path and from
// environment variables, which take precedence.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("REQUEST_TIMEOUT", "5s")
	v.SetDefault("NATS_SUBJECT_PREFIX", "campusnet")
	v.SetDefault("CORS_ORIGINS", "*")

	v.AutomaticEnv()
	// AutomaticEnv only affects Get; Unmarshal needs every key bound explicitly.
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
