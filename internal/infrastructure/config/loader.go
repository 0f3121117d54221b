package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/alert-engine/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, will use env vars and defaults
	}

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables explicitly
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.version", "APP_VERSION")

	// Server
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("server.port", "SERVER_PORT")

	// Database
	_ = v.BindEnv("database.host", "DATABASE_HOST")
	_ = v.BindEnv("database.port", "DATABASE_PORT")
	_ = v.BindEnv("database.user", "DATABASE_USER")
	_ = v.BindEnv("database.password", "DATABASE_PASSWORD")
	_ = v.BindEnv("database.name", "DATABASE_NAME")
	_ = v.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	// Redis
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	// Logging
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")

	// Scheduler
	_ = v.BindEnv("scheduler.cron_expression", "SCHEDULER_CRON_EXPRESSION")
	_ = v.BindEnv("scheduler.rule_cache_ttl", "SCHEDULER_RULE_CACHE_TTL")
	_ = v.BindEnv("scheduler.alert_timeout", "SCHEDULER_ALERT_TIMEOUT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "alert-lifecycle-engine")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "1.0.0")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "alerting_db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	// Logging defaults
	v.SetDefault("logging.level", "debug")
	v.SetDefault("logging.format", "console")

	// Scheduler defaults
	v.SetDefault("scheduler.cron_expression", "*/5 * * * *")
	v.SetDefault("scheduler.rule_cache_ttl", "5m")
	v.SetDefault("scheduler.alert_timeout", "5s")
	v.SetDefault("scheduler.default_escalation_window_mins", 60)
	v.SetDefault("scheduler.default_expiration", "168h")
	v.SetDefault("scheduler.default_page_size", 20)

	// Event Bus defaults
	v.SetDefault("event_bus.consumer_id", "alert-scanner-1")
	v.SetDefault("event_bus.max_retries", 3)
	v.SetDefault("event_bus.retry_backoff", "1s")
}
