package keychain

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"mealplan/cli/internal/credstore"
)

func TestManagerArrayKeyring(t *testing.T) {
	m := newWithRing(keyring.NewArrayKeyring(nil), zerolog.Nop())
	ctx := context.Background()

	_, err := m.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)

	pair := credstore.Pair{AccessToken: "a1", RefreshToken: "r1"}
	require.NoError(t, m.Save(ctx, pair))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, pair, got)

	require.NoError(t, m.Clear(ctx))
	_, err = m.Load(ctx)
	require.ErrorIs(t, err, credstore.ErrNotFound)
	require.NoError(t, m.Clear(ctx))
}

func TestManagerRejectsIncompletePair(t *testing.T) {
	m := newWithRing(keyring.NewArrayKeyring(nil), zerolog.Nop())
	require.ErrorIs(t, m.Save(context.Background(), credstore.Pair{RefreshToken: "r"}), credstore.ErrIncomplete)
}

func TestManagerFileBackend(t *testing.T) {
	dir := t.TempDir()
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      ServiceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: keyring.FixedStringPrompt("test-password"),
	})
	require.NoError(t, err)

	m := newWithRing(ring, zerolog.Nop())
	ctx := context.Background()
	pair := credstore.Pair{AccessToken: "file-access", RefreshToken: "file-refresh"}
	require.NoError(t, m.Save(ctx, pair))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, pair, got)
}

// flakyBackend fails writes for one key.
type flakyBackend struct {
	data    map[string]string
	failKey string
}

func (f *flakyBackend) Set(_ context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("write refused")
	}
	f.data[key] = value
	return nil
}

func (f *flakyBackend) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", errNotFound
	}
	return v, nil
}

func (f *flakyBackend) Delete(_ context.Context, key string) error {
	if _, ok := f.data[key]; !ok {
		return errNotFound
	}
	delete(f.data, key)
	return nil
}

func TestManagerRollsBackPartialWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("restores previous pair", func(t *testing.T) {
		fb := &flakyBackend{data: map[string]string{
			credstore.KeyAccessToken:  "old-a",
			credstore.KeyRefreshToken: "old-r",
		}, failKey: credstore.KeyRefreshToken}
		m := &Manager{backend: fb, log: zerolog.Nop()}

		err := m.Save(ctx, credstore.Pair{AccessToken: "new-a", RefreshToken: "new-r"})
		require.Error(t, err)

		got, err := m.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, credstore.Pair{AccessToken: "old-a", RefreshToken: "old-r"}, got)
	})

	t.Run("removes lone access token", func(t *testing.T) {
		fb := &flakyBackend{data: map[string]string{}, failKey: credstore.KeyRefreshToken}
		m := &Manager{backend: fb, log: zerolog.Nop()}

		require.Error(t, m.Save(ctx, credstore.Pair{AccessToken: "a", RefreshToken: "r"}))
		require.Empty(t, fb.data)
	})
}
