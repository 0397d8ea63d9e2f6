// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// securityBackend implements keychain operations using macOS security command.
type securityBackend struct {
	log zerolog.Logger
}

// newSecurityBackend creates a new macOS security command backend.
func newSecurityBackend(log zerolog.Logger) (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{log: log}, nil
}

// Set stores a key-value pair in macOS keychain.
func (s *securityBackend) Set(ctx context.Context, key, value string) error {
	s.log.Debug().Str("key", key).Int("len", len(value)).Msg("security: set")

	if err := s.Delete(ctx, key); err != nil && err != errNotFound {
		s.log.Debug().Err(err).Str("key", key).Msg("security: pre-delete failed")
	}

	// -U updates an existing entry in place
	cmd := exec.CommandContext(ctx, "security", "add-generic-password",
		"-a", ServiceName,
		"-s", key,
		"-w", value,
		"-U",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := fmt.Errorf("failed to store '%s' in keychain: %s: %w", key, strings.TrimSpace(stderr.String()), err)
		s.log.Debug().Err(errMsg).Msg("security: set failed")
		return errMsg
	}
	return nil
}

// Get retrieves a value from macOS keychain.
func (s *securityBackend) Get(ctx context.Context, key string) (string, error) {
	cmd := exec.CommandContext(ctx, "security", "find-generic-password",
		"-a", ServiceName,
		"-s", key,
		"-w",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "could not be found") {
			s.log.Debug().Str("key", key).Msg("security: key not found")
			return "", errNotFound
		}
		return "", fmt.Errorf("failed to retrieve from keychain: %s: %w", strings.TrimSpace(stderr.String()), err)
	}

	result := strings.TrimSpace(stdout.String())
	if result == "" {
		return "", errNotFound
	}
	s.log.Debug().Str("key", key).Int("len", len(result)).Msg("security: get")
	return result, nil
}

// Delete removes a key from macOS keychain.
func (s *securityBackend) Delete(ctx context.Context, key string) error {
	cmd := exec.CommandContext(ctx, "security", "delete-generic-password",
		"-a", ServiceName,
		"-s", key,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "could not be found") {
			return errNotFound
		}
		return fmt.Errorf("failed to delete from keychain: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
