package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/apodkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the backend server
//	-i int      online check interval in seconds
//	-t int      request timeout in seconds
//	-d string   path of the local SQLite database
//	-s string   local store: sqlite, s3 or memory
//	-f string   favorites backend: remote or local
//	-n int      default number of random pictures
//	-l string   log level
//	-p          seal the stored session with a passphrase
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-d", "-s", "-f", "-n", "-l", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base url of the server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local database file")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "local store (sqlite, s3, memory)")
	fs.StringVar(&cfg.FavoritesMode, "f", cfg.FavoritesMode, "favorites backend (remote, local)")
	fs.IntVar(&cfg.RandomCount, "n", cfg.RandomCount, "default random batch size")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Seal, "p", cfg.Seal, "protect the stored session with a passphrase")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
