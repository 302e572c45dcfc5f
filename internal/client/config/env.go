package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays cfg with the ONBOARD_* variables that are set. Unset
// variables leave the current value alone. Malformed values panic, like the
// other loaders.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
