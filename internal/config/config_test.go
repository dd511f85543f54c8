package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProductionConfig() *Config {
	return &Config{
		Env:        "production",
		Port:       "8460",
		JWTSecret:  "secure-secret-at-least-32-chars-long",
		DBPassword: "secure-password",
		DBSSLMode:  "require",
		RedisURL:   "redis://localhost:6379",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid production config", func(*Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Default JWT secret in production", func(c *Config) {
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Short JWT secret in production", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Default DB password in production", func(c *Config) { c.DBPassword = "password" }, true},
		{"Empty DB password in production", func(c *Config) { c.DBPassword = "" }, true},
		{"Short JWT secret in development", func(c *Config) {
			c.Env = "development"
			c.JWTSecret = "short"
		}, false},
		{"Default DB password in development", func(c *Config) {
			c.Env = "development"
			c.DBPassword = "password"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validProductionConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
