package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. Every partner bank listed in BANKS
// needs a PGSQL_URL_<CODE> variable pointing at its isolated database.
type Config struct {
	BankCodes        []string
	BankDatabaseURLs map[string]string
	Port             string
	IsProduction     bool
	RunMigrations    bool

	// Housekeeping sweep for expired reservation codes.
	PurgeInterval time.Duration

	// Per-IP rate limit, e.g. "100-M" for 100 requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("BANKS", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("PURGE_INTERVAL", "1m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:             viper.GetString("PORT"),
		IsProduction:     viper.GetBool("IS_PRODUCTION"),
		RunMigrations:    viper.GetBool("RUN_MIGRATIONS"),
		RateLimit:        viper.GetString("RATE_LIMIT"),
		BankDatabaseURLs: make(map[string]string),
	}

	banks := viper.GetString("BANKS")
	if banks == "" {
		return nil, fmt.Errorf("BANKS environment variable not set; expected a comma-separated list of bank codes")
	}
	for _, code := range strings.Split(banks, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		urlKey := "PGSQL_URL_" + code
		url := viper.GetString(urlKey)
		if url == "" {
			return nil, fmt.Errorf("%s not set for bank %s", urlKey, code)
		}
		cfg.BankCodes = append(cfg.BankCodes, code)
		cfg.BankDatabaseURLs[code] = url
	}

	purgeStr := viper.GetString("PURGE_INTERVAL")
	purgeInterval, err := time.ParseDuration(purgeStr)
	if err != nil {
		purgeInterval = time.Minute
		log.Printf("Warning: Invalid value for PURGE_INTERVAL ('%s'). Defaulting to %s.\n", purgeStr, purgeInterval.String())
	}
	cfg.PurgeInterval = purgeInterval

	return cfg, nil
}
