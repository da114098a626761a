package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App        AppConfig        `envPrefix:"APP_"`
	TradeKafka TradeKafkaConfig `envPrefix:"TRADE_KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name     string `env:"NAME" envDefault:"matching-engine"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// TradeKafkaConfig configures the optional trade event publisher.
// Leaving BROKERS empty disables publication.
type TradeKafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// Enabled reports whether trade publication is configured.
func (c TradeKafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Load loads the configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
