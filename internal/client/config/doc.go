// Package config loads runtime configuration for the APODKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "store": "s3",
//	  "favorites_mode": "local",
//	  "s3_bucket": "apod",
//	  "s3_base_endpoint": "http://127.0.0.1:9000"
//	}
//
// S3 credentials are read from the JSON file only.
package config
