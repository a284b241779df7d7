// Package config handles configuration for the overview server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the overview server.
//
// Fields:
//   - EndpointAddr: HTTP bind address.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps the overview in memory.
//   - RateLimitRPS / RateLimitBurst: per-client budget for overview writes.
//   - TokenMaxAge: oldest accepted bearer token, measured from its iat claim.
//   - MaxBodyBytes: upper bound for a written overview envelope.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddr    string
	DatabaseDSN     string
	RateLimitRPS    float64
	RateLimitBurst  int
	TokenMaxAge     time.Duration
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.RateLimitRPS = 5
	c.RateLimitBurst = 10
	c.TokenMaxAge = 10 * time.Minute
	c.MaxBodyBytes = 10 << 20
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
