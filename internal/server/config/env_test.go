package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv(EnvEndpointAddr, "0.0.0.0:8081")
	t.Setenv(EnvDatabaseDSN, "postgres://u:p@db:5432/overview")
	t.Setenv(EnvRateLimitRPS, "2.5")
	t.Setenv(EnvRateLimitBurst, "4")
	t.Setenv(EnvTokenMaxAge, "90s")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "0.0.0.0:8081", c.EndpointAddr)
	assert.Equal(t, "postgres://u:p@db:5432/overview", c.DatabaseDSN)
	assert.Equal(t, 2.5, c.RateLimitRPS)
	assert.Equal(t, 4, c.RateLimitBurst)
	assert.Equal(t, 90*time.Second, c.TokenMaxAge)
}

func TestParseEnv_EmptyDSNSelectsMemory(t *testing.T) {
	t.Setenv(EnvDatabaseDSN, "")

	c := Config{DatabaseDSN: "postgres://x"}
	parseEnv(&c)
	assert.Equal(t, "", c.DatabaseDSN)
}

func TestParseEnv_Malformed(t *testing.T) {
	for _, key := range []string{EnvRateLimitRPS, EnvRateLimitBurst, EnvTokenMaxAge} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "lots")
			var c Config
			require.Panics(t, func() { parseEnv(&c) })
		})
	}
}
