package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// RateLimitPerMinute bounds requests per client IP per minute. Zero
	// disables rate limiting.
	RateLimitPerMinute int

	// RejectFutureEffectiveDates makes the poster reject journals whose
	// effective date lies ahead of server time. Back-dated journals are
	// always accepted.
	RejectFutureEffectiveDates bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 0)
	viper.SetDefault("REJECT_FUTURE_EFFECTIVE_DATES", false)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:                viper.GetString("PGSQL_URL"),
		Port:                       viper.GetString("PORT"),
		IsProduction:               viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:              viper.GetBool("ENABLE_DB_CHECK"),
		RateLimitPerMinute:         viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		RejectFutureEffectiveDates: viper.GetBool("REJECT_FUTURE_EFFECTIVE_DATES"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	return cfg, nil
}
