package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wrapforge/wrapcycler/pkg/logger"
)

const (
	// DefaultEndpoints is the fixed failover-ordered list of RPC endpoints used
	// when RPC_ENDPOINTS is not set. The order is the order they are tried in.
	DefaultEndpoints = "https://ethereum-sepolia-rpc.publicnode.com," +
		"https://rpc.sepolia.org," +
		"https://1rpc.io/sepolia"

	// DefaultTokenAddress is the test token contract exposing balanceOf/allowance/approve/mint
	DefaultTokenAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

	// DefaultWrapperAddress is the wrapper contract exposing wrap/unwrap
	DefaultWrapperAddress = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"

	// DefaultMode is the default cycle orchestration mode
	DefaultMode = ModeContinuous

	// DefaultMaxAttempts defines the attempt budget per logical transaction
	DefaultMaxAttempts = 5

	// DefaultMetricsPort defines the default port for the health and metrics server
	DefaultMetricsPort = "8080"

	// DefaultBreakerThreshold defines the number of consecutive failed pairs before
	// the breaker trips. Zero disables the breaker.
	DefaultBreakerThreshold = 5

	// DefaultBreakerCooldown defines the cooldown in seconds once the breaker trips
	DefaultBreakerCooldown = 900
)

// GetEnvEndpoints returns the ordered RPC endpoint list from environment variables
func GetEnvEndpoints() ([]string, error) {
	raw := os.Getenv("RPC_ENDPOINTS")
	if raw == "" {
		raw = DefaultEndpoints
	}

	var endpoints []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, "http://") && !strings.HasPrefix(part, "https://") &&
			!strings.HasPrefix(part, "ws://") && !strings.HasPrefix(part, "wss://") {
			return nil, fmt.Errorf("invalid RPC_ENDPOINTS entry: %s, must be an http(s) or ws(s) URL", part)
		}
		endpoints = append(endpoints, part)
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("RPC_ENDPOINTS must contain at least one endpoint")
	}
	return endpoints, nil
}

// GetEnvTokenAddress returns the token contract address from environment variables
func GetEnvTokenAddress() string {
	if addr := os.Getenv("TOKEN_ADDRESS"); addr != "" {
		return addr
	}
	return DefaultTokenAddress
}

// GetEnvWrapperAddress returns the wrapper contract address from environment variables
func GetEnvWrapperAddress() string {
	if addr := os.Getenv("WRAPPER_ADDRESS"); addr != "" {
		return addr
	}
	return DefaultWrapperAddress
}

// GetEnvMode returns the cycle orchestration mode from environment variables
func GetEnvMode() (Mode, error) {
	mode := os.Getenv("RUN_MODE")
	if mode == "" {
		return DefaultMode, nil
	}

	switch Mode(mode) {
	case ModeContinuous, ModeBatch:
		return Mode(mode), nil
	}
	return "", fmt.Errorf("invalid RUN_MODE value: %s, must be 'continuous' or 'batch'", mode)
}

// GetEnvMaxAttempts returns the transaction attempt budget from environment variables
func GetEnvMaxAttempts() (int, error) {
	maxAttempts := os.Getenv("MAX_ATTEMPTS")
	if maxAttempts == "" {
		return DefaultMaxAttempts, nil
	}

	// use atoi
	attempts, err := strconv.Atoi(maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("invalid MAX_ATTEMPTS value: %s, must be an integer", maxAttempts)
	}
	if attempts <= 0 {
		return 0, fmt.Errorf("MAX_ATTEMPTS must be greater than 0")
	}
	return attempts, nil
}

// GetEnvMetricsPort returns the metrics server port from environment variables
func GetEnvMetricsPort() (string, error) {
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		return DefaultMetricsPort, nil
	}

	// Validate port format
	if _, err := strconv.Atoi(metricsPort); err != nil {
		return "", fmt.Errorf("invalid METRICS_PORT value: %s, must be a valid integer", metricsPort)
	}
	return metricsPort, nil
}

// GetEnvBreakerThreshold returns the circuit breaker threshold from environment variables
func GetEnvBreakerThreshold() (int, error) {
	threshold := os.Getenv("BREAKER_THRESHOLD")
	if threshold == "" {
		return DefaultBreakerThreshold, nil
	}

	value, err := strconv.Atoi(threshold)
	if err != nil {
		return 0, fmt.Errorf("invalid BREAKER_THRESHOLD value: %s, must be an integer", threshold)
	}
	if value < 0 {
		return 0, fmt.Errorf("BREAKER_THRESHOLD must not be negative")
	}
	return value, nil
}

// GetEnvBreakerCooldown returns the circuit breaker cooldown from environment variables
func GetEnvBreakerCooldown() (time.Duration, error) {
	cooldown := os.Getenv("BREAKER_COOLDOWN")
	if cooldown == "" {
		return time.Duration(DefaultBreakerCooldown) * time.Second, nil
	}

	seconds, err := strconv.Atoi(cooldown)
	if err != nil {
		return 0, fmt.Errorf("invalid BREAKER_COOLDOWN value: %s, must be an integer number of seconds", cooldown)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("BREAKER_COOLDOWN must be greater than 0")
	}
	return time.Duration(seconds) * time.Second, nil
}

// GetEnvLogLevel returns the log level from environment variables
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return logger.InfoLevel, nil
	}

	switch strings.ToLower(level) {
	case "debug":
		return logger.DebugLevel, nil
	case "info":
		return logger.InfoLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL value: %s, must be one of debug, info, warn, error", level)
}

// GetEnvLogColoring returns whether log coloring is enabled from environment variables
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return true, nil
	}

	value, err := strconv.ParseBool(coloring)
	if err != nil {
		return false, fmt.Errorf("invalid LOG_COLORING value: %s, must be a boolean", coloring)
	}
	return value, nil
}
