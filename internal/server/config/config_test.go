package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, "gateway.db", c.DatabaseDSN)
	assert.Equal(t, time.Second, c.DrainDuration)
	assert.Equal(t, 10*time.Second, c.GracefulShutdownDuration)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "gw.json")
	b, err := json.Marshal(map[string]any{
		"listen_addr":    ":9000",
		"database_dsn":   "json.db",
		"drain_duration": "3s",
		"read_timeout":   5000000000,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	t.Setenv("GATEWAY_DATABASE_DSN", "env.db")
	t.Setenv("GATEWAY_LOG_LEVEL", "debug")
	os.Args = []string{"gateway", "-config", path, "-a", ":7000", "-drain", "0s"}

	got := LoadConfig()

	want := &Config{}
	want.LoadDefaults()
	want.ListenAddr = ":7000"
	want.DatabaseDSN = "env.db"
	want.DrainDuration = 0
	want.ReadTimeout = 5 * time.Second
	want.LogLevel = "debug"

	assert.Empty(t, cmp.Diff(want, got))
}

func TestParseFlags_Invalid(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"gateway", "-drain", "forever"}
	require.Panics(t, func() { parseFlags(&Config{}) })
}

func TestParseJson_Invalid(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
	os.Args = []string{"gateway", "-c", bad}

	require.Panics(t, func() { parseJson(&Config{}) })
}
