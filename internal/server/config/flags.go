package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN, empty for the in-memory store
//	-r float    overview writes per second per client
//	-n int      rate limit burst
//	-m int      max token age, minutes
//
// os.Args is filtered to these flags with flagx.FilterArgs first, so the
// -c/-config flag does not trip the flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-n", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.Float64Var(&config.RateLimitRPS, "r", config.RateLimitRPS, "overview writes per second per client")
	fs.IntVar(&config.RateLimitBurst, "n", config.RateLimitBurst, "rate limit burst")
	tokenMaxAge := fs.Int("m", int(config.TokenMaxAge.Minutes()), "max token age (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenMaxAge = time.Duration(*tokenMaxAge) * time.Minute
}
