package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://project.example.co")
	t.Setenv("BACKEND_ANON_KEY", "anon-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://project.example.co", cfg.BackendURL)
	assert.Equal(t, "anon-key", cfg.BackendAnonKey)
	assert.Equal(t, "127.0.0.1:8411", cfg.ListenAddr)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval())
	assert.False(t, cfg.Realtime)
}

func TestValidate(t *testing.T) {
	valid := Config{
		BackendURL:     "https://project.example.co",
		BackendAnonKey: "anon-key",
		ListenAddr:     "127.0.0.1:8411",
		StoreBackend:   "memory",
		RequestTimeout: 10,
		RefreshSeconds: 60,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing backend url", func(c *Config) { c.BackendURL = "" }},
		{"missing anon key", func(c *Config) { c.BackendAnonKey = "" }},
		{"missing listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"unknown store backend", func(c *Config) { c.StoreBackend = "postgres" }},
		{"redis without url", func(c *Config) { c.StoreBackend = "redis"; c.RedisURL = "" }},
		{"sqlite without path", func(c *Config) { c.StoreBackend = "sqlite"; c.SQLitePath = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero refresh", func(c *Config) { c.RefreshSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
