package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"MEALPLAN_API_URL", "MEALPLAN_CREDENTIAL_BACKEND", "MEALPLAN_REDIS_URL", "MEALPLAN_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), c)
	require.Equal(t, 300*time.Millisecond, c.DebounceWindow())
	require.Equal(t, 10*time.Second, c.RequestTimeout())
}

func TestSaveThenLoad(t *testing.T) {
	dir := isolate(t)

	c := Default()
	c.APIBaseURL = "https://api.example.com/"
	c.CredentialBackend = BackendRedis
	c.Endpoints.Me = "/v2/me"
	require.NoError(t, Save(c))

	info, err := os.Stat(filepath.Join(dir, "mealplan", "config.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", got.APIBaseURL)
	require.Equal(t, BackendRedis, got.CredentialBackend)
	require.Equal(t, "/v2/me", got.Endpoints.Me)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, Save(Default()))

	t.Setenv("MEALPLAN_API_URL", "http://staging:9000")
	t.Setenv("MEALPLAN_CREDENTIAL_BACKEND", "MEMORY")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://staging:9000", c.APIBaseURL)
	require.Equal(t, BackendMemory, c.CredentialBackend)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mealplan"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mealplan", "config.json"), []byte("{"), 0o600))

	_, err := Load()
	require.Error(t, err)
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(t *testing.T, c Config)
	}{
		{
			name:  "debounce",
			key:   "debounce_ms",
			value: "150",
			check: func(t *testing.T, c Config) { require.Equal(t, 150, c.DebounceMs) },
		},
		{
			name:  "backend is case insensitive",
			key:   "credential_backend",
			value: "Redis",
			check: func(t *testing.T, c Config) { require.Equal(t, BackendRedis, c.CredentialBackend) },
		},
		{
			name:  "redis url",
			key:   "redis.url",
			value: "redis://cache:6379/2",
			check: func(t *testing.T, c Config) { require.Equal(t, "redis://cache:6379/2", c.Redis.URL) },
		},
		{name: "unknown backend", key: "credential_backend", value: "floppy", wantErr: true},
		{name: "negative timeout", key: "request_timeout_seconds", value: "-1", wantErr: true},
		{name: "unknown key", key: "colour", value: "blue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			err := c.Set(tt.key, tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	isolate(t)
	require.NoError(t, Save(Default()))
	t.Setenv("MEALPLAN_API_URL", "https://env.example.com")

	fileOnly, err := LoadFile()
	require.NoError(t, err)
	require.Equal(t, Default().APIBaseURL, fileOnly.APIBaseURL)

	merged, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", merged.APIBaseURL)
}
