// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port string `env:"PORT" envDefault:"8080"`

	// Database
	SQLiteDBPath string `env:"DB_PATH" envDefault:"./data/splitkip.db"`

	// AMQP change feed; empty URL disables publishing
	AMQPURL      string `env:"AMQP_URL" envDefault:""`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"splitkip"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"split_changes"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}

	if c.SQLiteDBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.AMQPURL != "" {
		parsed, err := url.Parse(c.AMQPURL)
		if err != nil {
			return fmt.Errorf("invalid AMQP URL %q: %w", c.AMQPURL, err)
		}
		if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			return fmt.Errorf("invalid AMQP URL scheme %q: must be amqp or amqps", parsed.Scheme)
		}
		if c.AMQPExchange == "" || c.AMQPQueue == "" {
			return fmt.Errorf("AMQP exchange and queue names required when AMQP URL is set")
		}
	}

	return nil
}
