// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mealplan/cli/internal/auth"
	"mealplan/cli/internal/backend"
	"mealplan/cli/internal/config"
	"mealplan/cli/internal/credstore"
	"mealplan/cli/internal/httperrors"
	"mealplan/cli/internal/keychain"
	"mealplan/cli/internal/logging"
	"mealplan/cli/internal/manifest"
	"mealplan/cli/internal/xdg"
)

// app bundles what a command needs to talk to the identity service.
type app struct {
	cfg   config.Config
	log   zerolog.Logger
	svc   *auth.Service
	host  string
	close func()
}

// loadConfig reads config and applies persistent flags on top.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagAPIURL != "" {
		cfg.APIBaseURL = flagAPIURL
	}
	if flagCredentialSrc != "" {
		cfg.CredentialBackend = flagCredentialSrc
	}
	return cfg, nil
}

// newApp builds the session for a command from config, endpoints and the
// configured credential store.
func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, flagVerbose || config.Verbose())

	m, err := manifest.GetEndpoints(cfg)
	if err != nil {
		return nil, err
	}

	api := backend.New(m.HTTPBaseURL(), m.HTTP,
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithLogger(log),
		backend.WithUserAgent(userAgent()),
	)

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	svc, err := auth.NewService(ctx, api, store,
		auth.WithLogger(log),
		auth.WithDebounceWindow(cfg.DebounceWindow()),
		auth.WithRequestTimeout(cfg.RequestTimeout()),
	)
	if err != nil {
		log.Warn().Err(err).Msg("could not read stored credentials")
	}

	return &app{
		cfg:   cfg,
		log:   log,
		svc:   svc,
		host:  httperrors.ExtractHostFromURL(m.HTTPBaseURL()),
		close: closeStore,
	}, nil
}

// openStore returns the credential store selected by cfg.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (credstore.Store, func(), error) {
	noop := func() {}
	switch cfg.CredentialBackend {
	case config.BackendMemory:
		return credstore.NewMemory(), noop, nil
	case config.BackendRedis:
		client, err := credstore.DialRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, fmt.Errorf("redis credential store: %s", logging.Mask(err.Error()))
		}
		return credstore.NewRedis(client, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	case config.BackendKeyring:
		dir := cfg.KeyringFileDir
		if dir == "" {
			if d, err := xdg.StateDir(); err == nil {
				dir = d
			}
		}
		m, err := keychain.NewManager(keychain.Options{
			FileDir:      dir,
			FilePassword: os.Getenv("MEALPLAN_KEYRING_PASSWORD"),
			Logger:       log,
		})
		if err != nil {
			return nil, noop, err
		}
		return m, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}

// withApp runs fn with a session built for cmd and releases it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}
