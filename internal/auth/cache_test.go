package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidityCache(t *testing.T) {
	var c ValidityCache
	require.Equal(t, ValidityUnknown, c.Get())

	require.False(t, c.ClearInvalid())
	c.MarkValid()
	require.False(t, c.ClearInvalid(), "only Invalid is cleared")
	require.Equal(t, ValidityValid, c.Get())

	c.MarkInvalid()
	require.Equal(t, "invalid", c.Get().String())
	require.True(t, c.ClearInvalid())
	require.Equal(t, ValidityUnknown, c.Get())

	c.MarkValid()
	c.Reset()
	require.Equal(t, ValidityUnknown, c.Get())
}

func TestProfileCacheDropsStaleWrites(t *testing.T) {
	c := NewProfileCache()
	older := c.Begin()
	newer := c.Begin()

	require.True(t, c.Set(newer, Profile{ID: "2", Name: "new"}))
	require.False(t, c.Set(older, Profile{ID: "1", Name: "old"}), "late response must not overwrite")
	require.Equal(t, "new", c.Snapshot().Profile.Name)
	require.Equal(t, newer, c.Snapshot().Seq)
}

func TestProfileCacheClearFencesOutstanding(t *testing.T) {
	c := NewProfileCache()
	inflight := c.Begin()
	c.Clear()

	require.False(t, c.Set(inflight, Profile{ID: "1"}))
	require.False(t, c.Snapshot().Authenticated)

	next := c.Begin()
	require.True(t, c.Set(next, Profile{ID: "1"}))
	require.True(t, c.Snapshot().Authenticated)
}

func TestProfileCacheFenceKeepsValue(t *testing.T) {
	c := NewProfileCache()
	require.True(t, c.Set(c.Begin(), Profile{ID: "1"}))
	inflight := c.Begin()
	c.Fence()

	require.False(t, c.Set(inflight, Profile{ID: "2"}))
	require.Equal(t, "1", c.Snapshot().Profile.ID)
}

func TestProfileCacheSubscribe(t *testing.T) {
	c := NewProfileCache()
	var got []Snapshot
	cancel := c.Subscribe(func(s Snapshot) { got = append(got, s) })

	c.Set(c.Begin(), Profile{ID: "7", Email: "a@b.c"})
	c.Clear()
	c.Clear() // already empty, no notification
	cancel()
	c.Set(c.Begin(), Profile{ID: "8"})

	require.Len(t, got, 2)
	require.True(t, got[0].Authenticated)
	require.Equal(t, "7", got[0].Profile.ID)
	require.False(t, got[1].Authenticated)
}

func TestDeriveState(t *testing.T) {
	tests := []struct {
		name  string
		has   bool
		v     Validity
		authd bool
		want  State
	}{
		{"no credentials", false, ValidityValid, true, StateAnonymous},
		{"rejected after refresh failure", false, ValidityInvalid, false, StateAnonymous},
		{"unknown", true, ValidityUnknown, false, StateChecking},
		{"valid without profile", true, ValidityValid, false, StateChecking},
		{"authenticated", true, ValidityValid, true, StateAuthenticated},
		{"invalid", true, ValidityInvalid, false, StateInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, deriveState(tt.has, tt.v, tt.authd))
		})
	}
}
