package credstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.Save(ctx, Pair{AccessToken: "a"}), ErrIncomplete)
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound, "rejected save leaves nothing behind")

	want := Pair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	want.AccessToken = "access-2"
	require.NoError(t, s.Save(ctx, want))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Clear(ctx), "clearing twice is fine")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	_, client := newMiniredis(t)
	exerciseStore(t, NewRedis(client, "test"))
}

func TestRedisStoreKeys(t *testing.T) {
	mr, client := newMiniredis(t)
	s := NewRedis(client, "kiosk")
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, Pair{AccessToken: "a", RefreshToken: "r"}))
	got, err := mr.Get("kiosk:accessToken")
	require.NoError(t, err)
	require.Equal(t, "a", got)
	got, err = mr.Get("kiosk:refreshToken")
	require.NoError(t, err)
	require.Equal(t, "r", got)

	// A half-written pair from some other writer reads as absent.
	mr.Del("kiosk:refreshToken")
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = DialRedis(context.Background(), "")
	require.Error(t, err)

	_, err = DialRedis(context.Background(), "::not a url")
	require.Error(t, err)
}
