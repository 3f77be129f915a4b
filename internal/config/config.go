package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
	Mailer       MailerConfig       `mapstructure:"mailer" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ScanToken authenticates callers of the scheduled scan endpoint.
	ScanToken string `mapstructure:"scan_token" validate:"required,min=16"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// RedisConfig configures the optional Redis-backed notification ledger.
// When URL is empty the ledger lives in Postgres instead.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// LedgerTTLHours bounds how long reservation entries are kept.
	// Zero means no expiry.
	LedgerTTLHours int `mapstructure:"ledger_ttl_hours" validate:"gte=0"`
}

// NotificationConfig tunes the due-date scan and dispatch pipeline.
type NotificationConfig struct {
	// DueSoonWindowHours is how far ahead of a due date a task counts
	// as due soon.
	DueSoonWindowHours int `mapstructure:"due_soon_window_hours" validate:"required,gt=0"`
	// ScanConcurrency bounds how many notifications are processed at
	// once during a scan.
	ScanConcurrency int `mapstructure:"scan_concurrency" validate:"required,gt=0,lte=64"`
	// DispatchTimeoutMs bounds a single delivery attempt.
	DispatchTimeoutMs int `mapstructure:"dispatch_timeout_ms" validate:"required,gt=0"`
	// ScanDeadlineSeconds bounds an entire scan run.
	ScanDeadlineSeconds int `mapstructure:"scan_deadline_seconds" validate:"required,gt=0"`
}

// MailerConfig configures the outbound email delivery provider.
type MailerConfig struct {
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
	APIKey   string `mapstructure:"api_key" validate:"required"`
	From     string `mapstructure:"from" validate:"required,email"`
}
