package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	Booking   BookingConfig
	Notify    NotifyConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration. When disabled the built-in
// charger listing and in-memory payment records are used.
type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration. When disabled sessions and locks
// are kept in process.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// BookingConfig holds booking flow settings.
type BookingConfig struct {
	PaymentDelay       time.Duration
	SessionTTL         time.Duration
	MaxAdvanceDays     int
	MaxPaymentAttempts int
	DeclineRate        float64
}

// NotifyConfig holds notification delivery settings. The queue worker only
// runs when Redis is enabled.
type NotifyConfig struct {
	ReminderLead      time.Duration
	WorkerConcurrency int
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// MaxAdvance returns the booking window as a duration.
func (c BookingConfig) MaxAdvance() time.Duration {
	return time.Duration(c.MaxAdvanceDays) * 24 * time.Hour
}

// ProcessingTimeout returns how long a payment may stay in flight before it is
// considered stale: twice the provider delay, and never less than ten seconds.
func (c BookingConfig) ProcessingTimeout() time.Duration {
	return max(2*c.PaymentDelay, 10*time.Second)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10*time.Second)

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "voltfind")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("NEW_RELIC_APP_NAME", "voltfind-booking")
	v.SetDefault("NEW_RELIC_LICENSE_KEY", "")
	v.SetDefault("NEW_RELIC_ENABLED", false)

	v.SetDefault("BOOKING_PAYMENT_DELAY", 2*time.Second)
	v.SetDefault("BOOKING_SESSION_TTL", 30*time.Minute)
	v.SetDefault("BOOKING_MAX_ADVANCE_DAYS", 30)
	v.SetDefault("BOOKING_MAX_PAYMENT_ATTEMPTS", 3)
	v.SetDefault("BOOKING_DECLINE_RATE", 0.0)

	v.SetDefault("NOTIFY_REMINDER_LEAD", 30*time.Minute)
	v.SetDefault("NOTIFY_WORKER_CONCURRENCY", 5)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT_BURST", 20)
}

// Load loads configuration from an optional config.yaml and the environment.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Enabled:  v.GetBool("DB_ENABLED"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("NEW_RELIC_APP_NAME"),
			LicenseKey: v.GetString("NEW_RELIC_LICENSE_KEY"),
			Enabled:    v.GetBool("NEW_RELIC_ENABLED"),
		},
		Booking: BookingConfig{
			PaymentDelay:       v.GetDuration("BOOKING_PAYMENT_DELAY"),
			SessionTTL:         v.GetDuration("BOOKING_SESSION_TTL"),
			MaxAdvanceDays:     v.GetInt("BOOKING_MAX_ADVANCE_DAYS"),
			MaxPaymentAttempts: v.GetInt("BOOKING_MAX_PAYMENT_ATTEMPTS"),
			DeclineRate:        v.GetFloat64("BOOKING_DECLINE_RATE"),
		},
		Notify: NotifyConfig{
			ReminderLead:      v.GetDuration("NOTIFY_REMINDER_LEAD"),
			WorkerConcurrency: v.GetInt("NOTIFY_WORKER_CONCURRENCY"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           v.GetBool("RATE_LIMIT_ENABLED"),
			RequestsPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Booking.SessionTTL <= 0:
		return errors.New("BOOKING_SESSION_TTL must be positive")
	case c.Booking.MaxAdvanceDays <= 0:
		return errors.New("BOOKING_MAX_ADVANCE_DAYS must be positive")
	case c.Booking.MaxPaymentAttempts <= 0:
		return errors.New("BOOKING_MAX_PAYMENT_ATTEMPTS must be positive")
	case c.Booking.DeclineRate < 0 || c.Booking.DeclineRate > 1:
		return errors.New("BOOKING_DECLINE_RATE must be between 0 and 1")
	case c.Booking.PaymentDelay < 0:
		return errors.New("BOOKING_PAYMENT_DELAY must not be negative")
	case c.Notify.ReminderLead < 0:
		return errors.New("NOTIFY_REMINDER_LEAD must not be negative")
	case c.Notify.WorkerConcurrency <= 0:
		return errors.New("NOTIFY_WORKER_CONCURRENCY must be positive")
	}
	return nil
}
