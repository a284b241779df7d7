// Package config loads runtime configuration for the Vaultacks client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-o string   overview document URL
//	-i int      online status check interval (seconds)
//	-t int      per-request timeout (seconds)
//	-s string   storage backend: fs | s3
//	-d string   fs backend root directory
//	-u, -p      s3 access key / secret
//	-b, -g, -e  s3 bucket / region / endpoint
//	-k string   shared key (hex, 32 bytes)
//	-l string   local cache DSN
//	-v          verbose logging
//
// # JSON schema
//
// Durations accept strings like "3s" or integer nanoseconds. Keys that are
// missing or empty leave the current value untouched:
//
//	{
//	  "overview_url": "http://127.0.0.1:8080/overview",
//	  "online_check_interval": "3s",
//	  "request_timeout": "30s",
//	  "storage_backend": "s3",
//	  "s3_bucket": "vault"
//	}
package config
