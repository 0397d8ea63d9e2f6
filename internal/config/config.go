// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to the credential store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"mealplan/cli/internal/xdg"
)

// Credential store backends.
const (
	BackendKeyring = "keyring"
	BackendRedis   = "redis"
	BackendMemory  = "memory"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIBaseURL        string      `json:"api_base_url"`
	LogLevel          string      `json:"log_level"`
	CredentialBackend string      `json:"credential_backend"`
	Redis             RedisConfig `json:"redis"`
	KeyringFileDir    string      `json:"keyring_file_dir,omitempty"`
	DebounceMs        int         `json:"debounce_ms"`
	RequestTimeoutSec int         `json:"request_timeout_seconds"`
	Endpoints         Endpoints   `json:"endpoints,omitempty"`
}

// RedisConfig holds settings for the shared Redis credential store.
type RedisConfig struct {
	URL       string `json:"url"`
	KeyPrefix string `json:"key_prefix"`
}

// Endpoints overrides REST paths of the identity service. Empty fields keep defaults.
type Endpoints struct {
	Login              string `json:"login,omitempty"`
	Register           string `json:"register,omitempty"`
	Me                 string `json:"me,omitempty"`
	Refresh            string `json:"refresh,omitempty"`
	Logout             string `json:"logout,omitempty"`
	Profile            string `json:"profile,omitempty"`
	VerifyEmail        string `json:"verify_email,omitempty"`
	ResendVerification string `json:"resend_verification,omitempty"`
	ForgotPassword     string `json:"forgot_password,omitempty"`
	ResetPassword      string `json:"reset_password,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:        "http://localhost:8000",
		LogLevel:          "info",
		CredentialBackend: BackendKeyring,
		Redis: RedisConfig{
			URL:       "redis://localhost:6379/0",
			KeyPrefix: "mealplan",
		},
		DebounceMs:        300,
		RequestTimeoutSec: 10,
	}
}

// DebounceWindow returns the profile fetch debounce window.
func (c Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Verbose reports whether debug output was requested through the environment.
func Verbose() bool {
	return os.Getenv("MEALPLAN_VERBOSE") == "1"
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables override values from the file.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	applyEnv(&c)
	c.normalize()
	return c, nil
}

// LoadFile reads only the config file, without environment overrides. Use it
// before Save so environment values are not written back.
func LoadFile() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	c.normalize()
	return c, nil
}

// Path returns the config file location.
func Path() (string, error) { return path() }

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv("MEALPLAN_API_URL")); v != "" {
		c.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MEALPLAN_CREDENTIAL_BACKEND")); v != "" {
		c.CredentialBackend = v
	}
	if v := strings.TrimSpace(os.Getenv("MEALPLAN_REDIS_URL")); v != "" {
		c.Redis.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("MEALPLAN_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	d := Default()
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = d.APIBaseURL
	}
	c.CredentialBackend = strings.ToLower(c.CredentialBackend)
	if c.CredentialBackend == "" {
		c.CredentialBackend = d.CredentialBackend
	}
	if c.DebounceMs <= 0 {
		c.DebounceMs = d.DebounceMs
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = d.RequestTimeoutSec
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = d.Redis.KeyPrefix
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// setters maps the keys accepted by Set to their assignment.
var setters = map[string]func(c *Config, v string) error{
	"api_base_url":            func(c *Config, v string) error { c.APIBaseURL = v; return nil },
	"log_level":               func(c *Config, v string) error { c.LogLevel = v; return nil },
	"keyring_file_dir":        func(c *Config, v string) error { c.KeyringFileDir = v; return nil },
	"redis.url":               func(c *Config, v string) error { c.Redis.URL = v; return nil },
	"redis.key_prefix":        func(c *Config, v string) error { c.Redis.KeyPrefix = v; return nil },
	"debounce_ms":             intSetter(func(c *Config, n int) { c.DebounceMs = n }),
	"request_timeout_seconds": intSetter(func(c *Config, n int) { c.RequestTimeoutSec = n }),
	"credential_backend": func(c *Config, v string) error {
		switch strings.ToLower(v) {
		case BackendKeyring, BackendRedis, BackendMemory:
			c.CredentialBackend = strings.ToLower(v)
			return nil
		}
		return fmt.Errorf("unknown credential backend %q (want keyring, redis or memory)", v)
	},
}

func intSetter(assign func(c *Config, n int)) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("expected a positive integer, got %q", v)
		}
		assign(c, n)
		return nil
	}
}

// Set assigns a single setting by its JSON key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, strings.TrimSpace(value))
}

// Keys lists the settings accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
