package config

import (
	"flag"
	"os"

	"github.com/atomist-global-seeds/blockstack-browser/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-g string          notification gateway base URL
//	-store string      store backend: sqlite or s3
//	-dsn string        sqlite database file
//	-bucket string     s3 bucket
//	-attempts int      delivery attempts per notification
//	-email string      resume at PASSWORD for this verified email
//	-token string      verification token for -email
//	-log-level string  debug, info, warn or error
//
// Only these flags are read from os.Args; the rest belong to other loaders.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-g", "-store", "-dsn", "-bucket", "-attempts", "-email", "-token", "-log-level",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.GatewayURL, "g", cfg.GatewayURL, "notification gateway base URL")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "store backend (sqlite|s3)")
	fs.StringVar(&cfg.StoreDSN, "dsn", cfg.StoreDSN, "sqlite database file")
	fs.StringVar(&cfg.S3Bucket, "bucket", cfg.S3Bucket, "s3 bucket")
	fs.IntVar(&cfg.DeliveryAttempts, "attempts", cfg.DeliveryAttempts, "delivery attempts per notification")
	fs.StringVar(&cfg.ResumeEmail, "email", cfg.ResumeEmail, "verified email to resume with")
	fs.StringVar(&cfg.ResumeToken, "token", cfg.ResumeToken, "verification token for -email")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
