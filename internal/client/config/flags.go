package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/flagx"
)

var clientFlags = []string{"-o", "-i", "-t", "-s", "-d", "-u", "-p", "-b", "-g", "-e", "-k", "-l"}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in clientFlags are parsed; -v is a bare switch checked separately.
// Panics on a malformed value.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], clientFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.OverviewURL, "o", cfg.OverviewURL, "overview document URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (fs|s3)")
	fs.StringVar(&cfg.StorageDir, "d", cfg.StorageDir, "fs storage directory")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "s3 access key")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "s3 secret key")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "s3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "s3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "s3 endpoint")
	fs.StringVar(&cfg.SharedKeyHex, "k", cfg.SharedKeyHex, "shared key (hex)")
	fs.StringVar(&cfg.CacheDSN, "l", cfg.CacheDSN, "local cache DSN")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second

	if flagx.HasFlag(os.Args[1:], "-v") {
		cfg.Verbose = true
	}
}
