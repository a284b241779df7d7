package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by parseEnv. A .env file is loaded into the
// process environment by the server binary before LoadConfig runs.
const (
	EnvEndpointAddr   = "VAULTACKS_ENDPOINT_ADDR"
	EnvDatabaseDSN    = "VAULTACKS_DATABASE_DSN"
	EnvRateLimitRPS   = "VAULTACKS_RATE_LIMIT_RPS"
	EnvRateLimitBurst = "VAULTACKS_RATE_LIMIT_BURST"
	EnvTokenMaxAge    = "VAULTACKS_TOKEN_MAX_AGE"
)

// parseEnv overlays config with set environment variables. Malformed
// numbers or durations panic, like malformed flags do.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv(EnvEndpointAddr); ok && v != "" {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvRateLimitRPS); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRateLimitRPS, err))
		}
		config.RateLimitRPS = rps
	}
	if v, ok := os.LookupEnv(EnvRateLimitBurst); ok && v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRateLimitBurst, err))
		}
		config.RateLimitBurst = burst
	}
	if v, ok := os.LookupEnv(EnvTokenMaxAge); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvTokenMaxAge, err))
		}
		config.TokenMaxAge = d
	}
}
