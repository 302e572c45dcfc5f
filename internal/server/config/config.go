// Package config handles configuration for the development notification
// gateway: defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the gateway.
//
// Fields:
//   - ListenAddr: HTTP bind address.
//   - DatabaseDSN: SQLite file for the notification log.
//   - DrainDuration: how long /readyz reports not ready before shutdown.
//   - GracefulShutdownDuration: upper bound for in-flight requests on exit.
type Config struct {
	ListenAddr               string        `env:"GATEWAY_LISTEN_ADDR"`
	DatabaseDSN              string        `env:"GATEWAY_DATABASE_DSN"`
	DrainDuration            time.Duration `env:"GATEWAY_DRAIN_DURATION"`
	GracefulShutdownDuration time.Duration `env:"GATEWAY_SHUTDOWN_TIMEOUT"`
	ReadTimeout              time.Duration `env:"GATEWAY_READ_TIMEOUT"`
	WriteTimeout             time.Duration `env:"GATEWAY_WRITE_TIMEOUT"`
	LogLevel                 string        `env:"GATEWAY_LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = "gateway.db"
	c.DrainDuration = 1 * time.Second
	c.GracefulShutdownDuration = 10 * time.Second
	c.ReadTimeout = 30 * time.Second
	c.WriteTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then an optional JSON
// file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
