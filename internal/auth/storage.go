// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"

	"mealplan/cli/internal/credstore"
)

// The helpers in this file keep the in-memory credential mirror and the
// credstore.Store in step. Callers hold s.mu.

// hydrateLocked loads the stored pair into the mirror.
func (s *Service) hydrateLocked(ctx context.Context) error {
	p, err := s.store.Load(ctx)
	if errors.Is(err, credstore.ErrNotFound) {
		s.log.Debug().Msg("no stored credentials")
		return nil
	}
	if err != nil {
		return err
	}
	s.creds = p
	s.log.Debug().Msg("credentials loaded from store")
	return nil
}

// persistLocked saves p and mirrors it. The mirror is updated only when the
// store accepted the pair.
func (s *Service) persistLocked(ctx context.Context, p credstore.Pair) error {
	if err := s.store.Save(ctx, p); err != nil {
		return err
	}
	s.creds = p
	return nil
}

// forgetLocked drops the mirror first so QuickCheck turns false even if the
// store cannot be cleared.
func (s *Service) forgetLocked(ctx context.Context) error {
	s.creds = credstore.Pair{}
	s.epoch++
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stored credentials")
		return err
	}
	return nil
}
