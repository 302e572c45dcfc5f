package config

import (
	"flag"
	"os"

	"github.com/atomist-global-seeds/blockstack-browser/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   SQLite database file
//	-l string   log level
//	-drain dur  drain duration before shutdown (e.g., "5s")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-l", "-drain"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.DurationVar(&config.DrainDuration, "drain", config.DrainDuration, "drain duration before shutdown")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
