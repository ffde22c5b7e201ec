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
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	Port                string `mapstructure:"PORT"`
	DBHost              string `mapstructure:"DB_HOST"`
	DBPort              string `mapstructure:"DB_PORT"`
	DBUser              string `mapstructure:"DB_USER"`
	DBPassword          string `mapstructure:"DB_PASSWORD"`
	DBName              string `mapstructure:"DB_NAME"`
	DBSSLMode           string `mapstructure:"DB_SSLMODE"`
	RedisURL            string `mapstructure:"REDIS_URL"`
	AllowedOrigins      string `mapstructure:"ALLOWED_ORIGINS"`
	Env                 string `mapstructure:"APP_ENV"`
	EventBackend        string `mapstructure:"EVENT_BACKEND"`
	EventTopic          string `mapstructure:"EVENT_TOPIC"`
	KafkaBrokers        string `mapstructure:"KAFKA_BROKERS"`
	StoreTimeoutSeconds int    `mapstructure:"STORE_TIMEOUT_SECONDS"`
	OutboxRelaySeconds  int    `mapstructure:"OUTBOX_RELAY_SECONDS"`
	StoryCleanupMinutes int    `mapstructure:"STORY_CLEANUP_MINUTES"`
	MediaDir            string `mapstructure:"MEDIA_DIR"`
}

// Event sink backends selectable via EVENT_BACKEND.
const (
	EventBackendOutbox = "outbox"
	EventBackendStream = "stream"
	EventBackendKafka  = "kafka"
)

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config.
	// The config file may legitimately not exist; env vars suffice.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if env != "test" || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
			}
		}
	}

	// Defaults for development
	viper.SetDefault("PORT", "8480")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "redesocial")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("EVENT_BACKEND", EventBackendOutbox)
	viper.SetDefault("EVENT_TOPIC", "content-events")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("STORE_TIMEOUT_SECONDS", 3)
	viper.SetDefault("OUTBOX_RELAY_SECONDS", 2)
	viper.SetDefault("STORY_CLEANUP_MINUTES", 60)
	viper.SetDefault("MEDIA_DIR", "./media")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	switch c.EventBackend {
	case EventBackendOutbox, EventBackendStream, EventBackendKafka:
	default:
		return fmt.Errorf("EVENT_BACKEND must be one of outbox, stream, kafka (got %q)", c.EventBackend)
	}
	if c.EventBackend == EventBackendKafka && c.KafkaBrokers == "" {
		return errors.New("KAFKA_BROKERS is required when EVENT_BACKEND=kafka")
	}
	if c.StoreTimeoutSeconds <= 0 {
		return errors.New("STORE_TIMEOUT_SECONDS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable SSL in production")
		}
	} else {
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}

// StoreTimeout is the bounded per-call timeout the engine applies to store operations.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

// OutboxRelayInterval is how often the outbox relay drains pending events.
func (c *Config) OutboxRelayInterval() time.Duration {
	return time.Duration(c.OutboxRelaySeconds) * time.Second
}

// StoryCleanupInterval is how often the advisory story reaper runs.
func (c *Config) StoryCleanupInterval() time.Duration {
	return time.Duration(c.StoryCleanupMinutes) * time.Minute
}
