package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"gateway_url":      "http://gateway.example:8080",
		"store_backend":    "s3",
		"s3_bucket":        "seeds",
		"verification_ttl": "30m",
		"delivery_timeout": 3000000000,
	})
	pathEnv := writeTempJSON(t, dir, "env.json", map[string]any{
		"app_host": "browser.example",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://gateway.example:8080", cfg.GatewayURL)
		assert.Equal(t, StoreS3, cfg.StoreBackend)
		assert.Equal(t, "seeds", cfg.S3Bucket)
		assert.Equal(t, 30*time.Minute, cfg.VerificationTTL)
		assert.Equal(t, 3*time.Second, cfg.DeliveryTimeout)
		assert.Equal(t, "localhost", cfg.AppHost, "absent keys keep defaults")
	})

	t.Run("falls back to ONBOARD_CONFIG", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("ONBOARD_CONFIG", pathEnv)

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "browser.example", cfg.AppHost)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{GatewayURL: "http://defaults:1234", DeliveryAttempts: 42}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.GatewayURL)
		assert.Equal(t, 42, cfg.DeliveryAttempts)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
