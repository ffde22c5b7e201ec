package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		JWTSecret:           "secure-secret-at-least-32-chars-long",
		Port:                "8480",
		DBPassword:          "secure-password",
		DBSSLMode:           "require",
		Env:                 "test",
		EventBackend:        EventBackendOutbox,
		EventTopic:          "content-events",
		KafkaBrokers:        "localhost:9092",
		StoreTimeoutSeconds: 3,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid test config", func(_ *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Unknown event backend", func(c *Config) { c.EventBackend = "rabbitmq" }, true},
		{"Kafka backend without brokers", func(c *Config) {
			c.EventBackend = EventBackendKafka
			c.KafkaBrokers = ""
		}, true},
		{"Kafka backend with brokers", func(c *Config) { c.EventBackend = EventBackendKafka }, false},
		{"Stream backend", func(c *Config) { c.EventBackend = EventBackendStream }, false},
		{"Zero store timeout", func(c *Config) { c.StoreTimeoutSeconds = 0 }, true},
		{"Production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "your-secret-key-change-in-production"
		}, true},
		{"Production with SSL disabled", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "disable"
		}, true},
		{"Production with weak DB password", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "password"
		}, true},
		{"Production fully hardened", func(c *Config) { c.Env = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
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

func TestConfig_DurationHelpers(t *testing.T) {
	c := &Config{
		StoreTimeoutSeconds: 3,
		OutboxRelaySeconds:  2,
		StoryCleanupMinutes: 60,
	}

	assert.Equal(t, 3*time.Second, c.StoreTimeout())
	assert.Equal(t, 2*time.Second, c.OutboxRelayInterval())
	assert.Equal(t, time.Hour, c.StoryCleanupInterval())
}
