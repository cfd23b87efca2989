package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-g string   Google OAuth client ID
//	-k string   NASA API key
//	-n string   NASA APOD API URL
//	-r int      per-user rate limit, requests per minute
//	-l string   log level
//
// The arguments are first filtered with flagx.FilterArgs so flags owned by
// other components do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-g", "-k", "-n", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidityDuration := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token_validity_duration (in minutes)")

	fs.StringVar(&config.GoogleClientID, "g", config.GoogleClientID, "Google OAuth client id")
	fs.StringVar(&config.NASAAPIKey, "k", config.NASAAPIKey, "NASA API key")
	fs.StringVar(&config.NASAAPIURL, "n", config.NASAAPIURL, "NASA APOD API url")
	fs.IntVar(&config.RateLimit, "r", config.RateLimit, "rate limit (requests per minute per user)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidityDuration) * time.Minute
}
