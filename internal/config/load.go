package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. Secrets and
	// connection URLs intentionally have none.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ledger_ttl_hours", 0)
	v.SetDefault("notification.due_soon_window_hours", 24)
	v.SetDefault("notification.scan_concurrency", 4)
	v.SetDefault("notification.dispatch_timeout_ms", 10000)
	v.SetDefault("notification.scan_deadline_seconds", 300)

	// Optional config file, e.g. ./config.yaml. Environment variables
	// override anything it contains.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// TASKPING_SERVER_PORT, TASKPING_DATABASE_URL, etc.
	v.SetEnvPrefix("TASKPING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env-only keys to Unmarshal,
	// so bind every key we know about explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"server.scan_token",
		"database.url",
		"redis.url",
		"redis.ledger_ttl_hours",
		"notification.due_soon_window_hours",
		"notification.scan_concurrency",
		"notification.dispatch_timeout_ms",
		"notification.scan_deadline_seconds",
		"mailer.endpoint",
		"mailer.api_key",
		"mailer.from",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
