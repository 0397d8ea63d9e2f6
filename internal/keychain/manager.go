// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the session credential pair in the OS credential store.
//
// On macOS the native security command is tried first, then the keyring library.
// Linux uses Secret Service, KWallet or pass when available, falling back to an
// encrypted file under the state directory when a file password is configured.
// Both tokens are written under one lock and a failed second write rolls the first
// back, so readers never observe a partial pair.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"

	"mealplan/cli/internal/credstore"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "mealplan"

// errNotFound is returned by backends for a missing key.
var errNotFound = errors.New("key not found")

// Options configures the keyring that backs a Manager.
type Options struct {
	// FileDir enables the encrypted file backend when FilePassword is also set.
	FileDir      string
	FilePassword string
	Logger       zerolog.Logger
}

// Manager is a thread-safe credstore.Store over the OS keychain.
type Manager struct {
	mu      sync.Mutex
	backend keychainBackend
	log     zerolog.Logger
}

var _ credstore.Store = (*Manager)(nil)

// keychainBackend defines the primitive operations a Manager builds on.
type keychainBackend interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewManager opens the platform credential store.
func NewManager(opts Options) (*Manager, error) {
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(opts.Logger)
		if err == nil {
			return &Manager{backend: backend, log: opts.Logger}, nil
		}
		opts.Logger.Debug().Err(err).Msg("native keychain unavailable, using keyring library")
	}

	ring, err := openRing(opts)
	if err != nil {
		return nil, err
	}
	return newWithRing(ring, opts.Logger), nil
}

func newWithRing(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{backend: ringBackend{ring: ring}, log: log}
}

// allowedBackends lists keyring backends in preference order for the current OS.
func allowedBackends(opts Options) []keyring.BackendType {
	var backends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		backends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		backends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		backends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}
	if opts.FileDir != "" && opts.FilePassword != "" {
		backends = append(backends, keyring.FileBackend)
	}
	return backends
}

func openRing(opts Options) (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends(opts),
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
	}
	if opts.FileDir != "" && opts.FilePassword != "" {
		cfg.FileDir = opts.FileDir
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		if opts.FilePassword == "" {
			return nil, fmt.Errorf("no credential store available (set MEALPLAN_KEYRING_PASSWORD to use an encrypted file): %w", err)
		}
		return nil, err
	}
	return ring, nil
}

// Save writes both tokens. If the refresh token cannot be written the previous
// access token is restored.
func (m *Manager) Save(ctx context.Context, p credstore.Pair) error {
	if !p.Complete() {
		return credstore.ErrIncomplete
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	prevAccess, prevErr := m.backend.Get(ctx, credstore.KeyAccessToken)

	if err := m.backend.Set(ctx, credstore.KeyAccessToken, p.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := m.backend.Set(ctx, credstore.KeyRefreshToken, p.RefreshToken); err != nil {
		if prevErr == nil && prevAccess != "" {
			_ = m.backend.Set(ctx, credstore.KeyAccessToken, prevAccess)
		} else {
			_ = m.backend.Delete(ctx, credstore.KeyAccessToken)
		}
		m.log.Debug().Err(err).Msg("refresh token write failed, access token rolled back")
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Load returns the stored pair, or credstore.ErrNotFound if either token is missing.
func (m *Manager) Load(ctx context.Context) (credstore.Pair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	access, err := m.backend.Get(ctx, credstore.KeyAccessToken)
	if err != nil {
		return credstore.Pair{}, mapNotFound(err)
	}
	refresh, err := m.backend.Get(ctx, credstore.KeyRefreshToken)
	if err != nil {
		return credstore.Pair{}, mapNotFound(err)
	}
	p := credstore.Pair{AccessToken: access, RefreshToken: refresh}
	if !p.Complete() {
		return credstore.Pair{}, credstore.ErrNotFound
	}
	return p, nil
}

// Clear removes both tokens. Missing keys are ignored.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	errA := m.backend.Delete(ctx, credstore.KeyAccessToken)
	errR := m.backend.Delete(ctx, credstore.KeyRefreshToken)
	return errors.Join(ignoreNotFound(errA), ignoreNotFound(errR))
}

func mapNotFound(err error) error {
	if errors.Is(err, errNotFound) {
		return credstore.ErrNotFound
	}
	return err
}

func ignoreNotFound(err error) error {
	if errors.Is(err, errNotFound) {
		return nil
	}
	return err
}

// ringBackend adapts a keyring.Keyring to keychainBackend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(_ context.Context, key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (r ringBackend) Get(_ context.Context, key string) (string, error) {
	it, err := r.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", errNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", errNotFound
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(_ context.Context, key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return errNotFound
	}
	return err
}
