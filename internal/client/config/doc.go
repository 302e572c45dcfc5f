// Package config loads runtime configuration for the onboarding wizard.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / -config, or ONBOARD_CONFIG.
//  3. ONBOARD_* environment variables (see the env tags on Config).
//  4. Command-line flags (see parseFlags).
//
// # JSON schema
//
// Durations use timex.Duration, so "2s" and integer nanoseconds both work:
//
//	{
//	  "gateway_url": "http://127.0.0.1:8080",
//	  "store_backend": "sqlite",
//	  "store_dsn": "onboarding.db",
//	  "delivery_attempts": 3,
//	  "delivery_backoff": "2s"
//	}
//
// Loaders panic on unreadable or malformed input.
package config
