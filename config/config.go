package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           string
	AllowedOrigins string

	// Database configuration
	DatabaseURL string

	// Admin configuration
	AdminWallet string // lowercase wallet address allowed on /api/admin routes

	// Game configuration
	LuckyChance        float64 // probability of a lucky bonus per winning run
	LuckyMultiplierMin float64
	LuckyMultiplierMax float64
	StaminaRegenEvery  time.Duration // interval between +1 stamina ticks

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		Port:           os.Getenv("PORT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AdminWallet:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_WALLET"))),

		// Game defaults
		LuckyChance:        0.10,
		LuckyMultiplierMin: 1.5,
		LuckyMultiplierMax: 3.0,
		StaminaRegenEvery:  time.Hour,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Port == "" {
		config.Port = "8787"
	}
	if config.AllowedOrigins == "" {
		config.AllowedOrigins = "http://localhost:5173"
	}

	// Override game defaults if environment variables are set
	if chance := os.Getenv("LUCKY_CHANCE"); chance != "" {
		if parsed, err := strconv.ParseFloat(chance, 64); err == nil {
			config.LuckyChance = parsed
		}
	}
	if interval := os.Getenv("STAMINA_REGEN_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.StaminaRegenEvery = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
