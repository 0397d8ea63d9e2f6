// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// securityBackend is a stub for non-macOS platforms.
type securityBackend struct{}

// newSecurityBackend returns an error on non-macOS platforms.
func newSecurityBackend(zerolog.Logger) (*securityBackend, error) {
	return nil, errors.New("security backend only available on macOS")
}

func (s *securityBackend) Set(context.Context, string, string) error {
	return errors.New("not implemented")
}

func (s *securityBackend) Get(context.Context, string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *securityBackend) Delete(context.Context, string) error {
	return errors.New("not implemented")
}
