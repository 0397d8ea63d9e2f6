package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"mealplan/cli/internal/config"
	"mealplan/cli/internal/credstore"
	"mealplan/cli/internal/identitytest"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	for _, k := range []string{"MEALPLAN_API_URL", "MEALPLAN_CREDENTIAL_BACKEND", "MEALPLAN_REDIS_URL", "MEALPLAN_LOG_LEVEL", "MEALPLAN_VERBOSE"} {
		t.Setenv(k, "")
	}
	t.Cleanup(func() {
		flagAPIURL, flagCredentialSrc, flagVerbose = "", "", false
		loginEmail, loginPassword = "", ""
		statusQuick = false
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigSetShowKeys(t *testing.T) {
	isolate(t)

	_, err := run(t, "config", "set", "debounce_ms", "150")
	require.NoError(t, err)
	cfg, err := config.LoadFile()
	require.NoError(t, err)
	require.Equal(t, 150, cfg.DebounceMs)

	_, err = run(t, "config", "set", "debounce_ms", "fast")
	require.Error(t, err)
	_, err = run(t, "config", "set", "no_such_key", "x")
	require.Error(t, err)

	_, err = run(t, "config", "set", "redis.url", "redis://:pw@cache:6379/0")
	require.NoError(t, err)
	out, err := run(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, `"debounce_ms": 150`)
	require.NotContains(t, out, ":pw@", "secrets in URLs are masked")

	out, err = run(t, "config", "keys")
	require.NoError(t, err)
	require.Contains(t, out, "credential_backend")
}

func TestLoginCommand(t *testing.T) {
	isolate(t)
	srv := identitytest.New(t)
	srv.AddUser("cook@example.com", "s3cret-pass", "Cook", "member")

	_, err := run(t, "--api", srv.URL, "--credential-backend", "memory",
		"login", "--email", "cook@example.com", "--password", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, 1, srv.Calls(identitytest.RouteLogin))

	_, err = run(t, "--api", srv.URL, "--credential-backend", "memory",
		"login", "--email", "cook@example.com", "--password", "wrong")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "log in:"))
}

func TestStatusQuickMakesNoCalls(t *testing.T) {
	isolate(t)
	srv := identitytest.New(t)

	_, err := run(t, "--api", srv.URL, "--credential-backend", "memory", "status", "--quick")
	require.NoError(t, err)
	require.Zero(t, srv.TotalCalls())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.CredentialBackend = config.BackendMemory
	s, closeFn, err := openStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &credstore.Memory{}, s)

	cfg.CredentialBackend = "floppy"
	_, _, err = openStore(ctx, cfg, zerolog.Nop())
	require.Error(t, err)

	cfg.CredentialBackend = config.BackendRedis
	cfg.Redis.URL = "redis://:secret@127.0.0.1:1/0"
	_, _, err = openStore(ctx, cfg, zerolog.Nop())
	require.Error(t, err)
	require.NotContains(t, err.Error(), "secret")
}
