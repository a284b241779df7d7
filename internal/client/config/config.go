package config

import "time"

// Storage backends understood by the client.
const (
	StorageFS = "fs"
	StorageS3 = "s3"
)

// Config holds runtime settings for the Vaultacks client.
//
// Fields:
//   - OverviewURL: URL of the shared overview document (GET/PUT).
//   - OnlineCheckInterval: how often the client probes overview reachability.
//   - RequestTimeout: upper bound for each remote call.
//   - StorageBackend: "fs" or "s3".
//   - StorageDir: root directory for the fs backend.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: s3 backend settings.
//   - SharedKeyHex: hex AES-256 key wrapping the overview document and shared blobs.
//   - CacheDSN: sqlite DSN of the local document cache.
//   - Verbose: log at debug level.
type Config struct {
	OverviewURL         string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	StorageBackend      string
	StorageDir          string
	S3RootUser          string
	S3RootPassword      string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	SharedKeyHex        string
	CacheDSN            string
	Verbose             bool
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.OverviewURL = "http://127.0.0.1:8080/overview"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 30 * time.Second
	c.StorageBackend = StorageFS
	c.StorageDir = "vaultacks-data"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "vault"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.SharedKeyHex = "4e185081062dd819e0f251864817957704f17bb07baef49fa447bbbeb8b143e5"
	c.CacheDSN = "file:vaultacks-cache.db"
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
