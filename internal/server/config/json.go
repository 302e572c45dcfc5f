package config

import (
	"encoding/json"
	"os"

	"github.com/atomist-global-seeds/blockstack-browser/internal/flagx"
	"github.com/atomist-global-seeds/blockstack-browser/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON files. Durations accept "1s"
// strings or integer nanoseconds.
type JsonConfig struct {
	ListenAddr               string         `json:"listen_addr"`
	DatabaseDSN              string         `json:"database_dsn"`
	DrainDuration            timex.Duration `json:"drain_duration"`
	GracefulShutdownDuration timex.Duration `json:"graceful_shutdown_duration"`
	ReadTimeout              timex.Duration `json:"read_timeout"`
	WriteTimeout             timex.Duration `json:"write_timeout"`
	LogLevel                 string         `json:"log_level"`
}

// parseJson overlays config with the file named by -c/-config or
// GATEWAY_CONFIG. Keys missing from the file keep their current value.
// Unreadable or invalid files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigPath("GATEWAY_CONFIG")
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != "" {
		config.ListenAddr = c.ListenAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.DrainDuration.Duration != 0 {
		config.DrainDuration = c.DrainDuration.Duration
	}
	if c.GracefulShutdownDuration.Duration != 0 {
		config.GracefulShutdownDuration = c.GracefulShutdownDuration.Duration
	}
	if c.ReadTimeout.Duration != 0 {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout.Duration != 0 {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
