// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credstore defines the credential pair and the storage contract for it,
// plus in-memory and Redis-backed implementations. The OS keychain implementation
// lives in internal/keychain.
//
// Implementations persist both tokens as one unit: a reader never observes a state
// where only one of them is present.
package credstore

import (
	"context"
	"errors"
)

// Keys under which the two tokens are persisted.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
)

// ErrNotFound is returned by Load when no complete pair is stored.
var ErrNotFound = errors.New("no stored credentials")

// Pair is the access/refresh credential pair. Both values are opaque.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Complete reports whether both tokens are present.
func (p Pair) Complete() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Store persists a credential pair across process restarts.
type Store interface {
	// Save replaces the stored pair. Incomplete pairs are rejected.
	Save(ctx context.Context, p Pair) error
	// Load returns the stored pair or ErrNotFound.
	Load(ctx context.Context) (Pair, error)
	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// ErrIncomplete is returned by Save when either token is empty.
var ErrIncomplete = errors.New("credential pair must contain both tokens")
