// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"sync"

	"mealplan/cli/internal/backend"
)

// Profile is the last known identity of the signed-in user.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
}

// Authenticated is true iff the profile carries an id.
func (p Profile) Authenticated() bool { return p.ID != "" }

func profileFromUser(u backend.User) Profile {
	return Profile{ID: string(u.ID), Email: u.Email, Name: u.Name, Role: u.Role}
}

// Snapshot is a consistent read of the ProfileCache.
type Snapshot struct {
	Profile       Profile
	Authenticated bool
	// Seq is the sequence number of the write that produced this value.
	Seq uint64
}

// ProfileCache is an observable holder for the current Profile.
//
// Writers call Begin before starting a fetch and pass the returned sequence to Set.
// A write is applied only if its sequence is higher than every write applied so far,
// so a slow response cannot overwrite a newer one. Clear and Fence advance the
// sequence past every outstanding fetch.
type ProfileCache struct {
	notifyMu sync.Mutex // serializes write+notify so subscribers see writes in order

	mu      sync.Mutex
	profile Profile
	issued  uint64
	applied uint64
	nextSub int
	subs    map[int]func(Snapshot)
}

// NewProfileCache returns an empty cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{subs: make(map[int]func(Snapshot))}
}

// Begin reserves a sequence number for a write that is about to be fetched.
func (c *ProfileCache) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

// Set stores p if seq is newer than the last applied write. It reports whether
// the write was applied.
func (c *ProfileCache) Set(seq uint64, p Profile) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if seq <= c.applied {
		c.mu.Unlock()
		return false
	}
	c.applied = seq
	c.profile = p
	snap, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// Fence drops every outstanding write without changing the stored profile.
func (c *ProfileCache) Fence() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	c.applied = c.issued
}

// Clear empties the profile and drops every outstanding write.
func (c *ProfileCache) Clear() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.issued++
	c.applied = c.issued
	had := c.profile != (Profile{})
	c.profile = Profile{}
	snap, subs := c.snapshotLocked(), c.subscribersLocked()
	c.mu.Unlock()

	if !had {
		return
	}
	for _, fn := range subs {
		fn(snap)
	}
}

// Snapshot returns the current profile.
func (c *ProfileCache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be called after every change. fn must not write to
// the cache. The returned function removes the subscription.
func (c *ProfileCache) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *ProfileCache) snapshotLocked() Snapshot {
	return Snapshot{Profile: c.profile, Authenticated: c.profile.Authenticated(), Seq: c.applied}
}

func (c *ProfileCache) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}
