// Package config provides application configuration.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	EventBus  EventBusConfig  `mapstructure:"event_bus"`
}

// AppConfig manage environment the app
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// ServerConfig manage the timing API rest
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig manage the features of database
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig manage the features of cache
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LoggingConfig manage level the logs
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulerConfig manages the periodic auto-close scanner job and the
// lifecycle defaults it and the rule engine consult.
type SchedulerConfig struct {
	// CronExpression controls the scan interval, e.g. "*/5 * * * *".
	CronExpression string `mapstructure:"cron_expression"`
	// RuleCacheTTL is how long active rules are cached in-process before reload.
	RuleCacheTTL time.Duration `mapstructure:"rule_cache_ttl"`
	// AlertTimeout bounds how long a scan pass spends on any single alert's
	// auto-close check/apply before moving on to the next.
	AlertTimeout time.Duration `mapstructure:"alert_timeout"`
	// DefaultEscalationWindowMins is the fallback escalation window in minutes
	// when a rule doesn't specify one.
	DefaultEscalationWindowMins int `mapstructure:"default_escalation_window_mins"`
	// DefaultExpiration is loaded from configuration but read by no code in
	// this module; entity.NewAlert always applies entity.DefaultExpiration.
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	// DefaultPageSize is loaded from configuration but read by no code in this
	// module; pagination falls back to valueobject.DefaultPageSize.
	DefaultPageSize int `mapstructure:"default_page_size"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Address returns the Redis connection address
func (r *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Address returns the server address
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction returns true if running in production
func (a *AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// IsDevelopment returns true if running in development
func (a *AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// EventBusConfig holds event bus configuration.
type EventBusConfig struct {
	ConsumerID   string        `mapstructure:"consumer_id"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}
