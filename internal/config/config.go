// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	BackendURL     string `mapstructure:"BACKEND_URL"`
	BackendAnonKey string `mapstructure:"BACKEND_ANON_KEY"`
	ListenAddr     string `mapstructure:"LISTEN_ADDR"`
	StoreBackend   string `mapstructure:"STORE_BACKEND"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	RequestTimeout int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	RefreshSeconds int    `mapstructure:"REFRESH_SECONDS"`
	Realtime       bool   `mapstructure:"REALTIME"`
	Env            string `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Empty defaults register the required keys so environment overrides are
	// seen by Unmarshal.
	viper.SetDefault("BACKEND_URL", "")
	viper.SetDefault("BACKEND_ANON_KEY", "")
	viper.SetDefault("LISTEN_ADDR", "127.0.0.1:8411")
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("SQLITE_PATH", "elfkoelsch.db")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 10)
	viper.SetDefault("REFRESH_SECONDS", 60)
	viper.SetDefault("REALTIME", false)
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.BackendAnonKey == "" {
		return errors.New("BACKEND_ANON_KEY is required")
	}
	if c.ListenAddr == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	switch c.StoreBackend {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, redis or sqlite, got %q", c.StoreBackend)
	}
	if c.StoreBackend == "redis" && c.RedisURL == "" {
		return errors.New("REDIS_URL is required when STORE_BACKEND is redis")
	}
	if c.StoreBackend == "sqlite" && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when STORE_BACKEND is sqlite")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.RefreshSeconds <= 0 {
		return errors.New("REFRESH_SECONDS must be positive")
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// RefreshInterval returns the poll interval as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}
