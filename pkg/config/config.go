package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/wrapforge/wrapcycler/pkg/logger"
)

// Mode selects which cycle orchestrator runs. The two modes share the same
// primitives but are never mixed: continuous rechecks preconditions before
// every pair, batch prepares once per day.
type Mode string

const (
	// ModeContinuous runs wrap/unwrap pairs forever with long randomized pacing.
	ModeContinuous Mode = "continuous"
	// ModeBatch runs a bounded number of pairs once per 24 hour period.
	ModeBatch Mode = "batch"
)

// Config holds the configuration for the wrapcycler service
type Config struct {
	PrivateKey     string
	Endpoints      []string
	TokenAddress   string
	WrapperAddress string
	Mode           Mode
	MaxAttempts    int
	MetricsPort    string
	Breaker        BreakerConfig
	LoggerConfig   LoggerConfig
}

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	Threshold int
	Cooldown  time.Duration
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	endpoints, err := GetEnvEndpoints()
	if err != nil {
		return nil, err
	}

	mode, err := GetEnvMode()
	if err != nil {
		return nil, err
	}

	maxAttempts, err := GetEnvMaxAttempts()
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvMetricsPort()
	if err != nil {
		return nil, err
	}

	breakerThreshold, err := GetEnvBreakerThreshold()
	if err != nil {
		return nil, err
	}

	breakerCooldown, err := GetEnvBreakerCooldown()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		PrivateKey:     os.Getenv("PRIVATE_KEY"),
		Endpoints:      endpoints,
		TokenAddress:   GetEnvTokenAddress(),
		WrapperAddress: GetEnvWrapperAddress(),
		Mode:           mode,
		MaxAttempts:    maxAttempts,
		MetricsPort:    metricsPort,
		Breaker: BreakerConfig{
			Threshold: breakerThreshold,
			Cooldown:  breakerCooldown,
		},
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}

	// Validate required environment variables
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.PrivateKey == "" {
		return fmt.Errorf("PRIVATE_KEY environment variable is required")
	}
	if len(cfg.Endpoints) == 0 {
		return fmt.Errorf("at least one RPC endpoint is required")
	}
	if cfg.TokenAddress == "" {
		return fmt.Errorf("TOKEN_ADDRESS is required")
	}
	if cfg.WrapperAddress == "" {
		return fmt.Errorf("WRAPPER_ADDRESS is required")
	}
	return nil
}
