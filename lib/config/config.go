// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warden-foundation/warden/lib/ref"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for the Warden agent.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Platform configures the chat platform REST client.
	Platform PlatformConfig `yaml:"platform"`

	// Owner is the user ID with unrestricted authority over badge
	// grants and antinuke immunity. Required.
	Owner ref.UserID `yaml:"owner"`

	// State configures durable state persistence.
	State StateConfig `yaml:"state"`

	// Socket configures the control socket the gateway frontend
	// connects to.
	Socket SocketConfig `yaml:"socket"`

	// Guard configures antinuke audit correlation.
	Guard GuardConfig `yaml:"guard"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Platform *PlatformConfig `yaml:"platform,omitempty"`
	State    *StateOverrides `yaml:"state,omitempty"`
	Socket   *SocketConfig   `yaml:"socket,omitempty"`
	Guard    *GuardConfig    `yaml:"guard,omitempty"`
}

// StateOverrides mirrors StateConfig for override blocks. AllowFresh
// is a pointer so that an override block tuning only other state
// fields leaves the environment's AllowFresh default alone.
type StateOverrides struct {
	Path         string   `yaml:"path,omitempty"`
	SaveInterval Duration `yaml:"save_interval,omitempty"`
	InitRetries  int      `yaml:"init_retries,omitempty"`
	InitBackoff  Duration `yaml:"init_backoff,omitempty"`
	AllowFresh   *bool    `yaml:"allow_fresh,omitempty"`
}

// PlatformConfig configures the chat platform REST client.
type PlatformConfig struct {
	// BaseURL is the platform API endpoint.
	// Default: https://discord.com/api/v10
	BaseURL string `yaml:"base_url"`

	// TokenFile is the path to a file containing the bot token.
	// The file's contents are trimmed of trailing whitespace.
	TokenFile string `yaml:"token_file"`

	// RequestTimeout bounds each platform HTTP request.
	// Default: 15s
	RequestTimeout Duration `yaml:"request_timeout"`
}

// StateConfig configures durable state persistence.
type StateConfig struct {
	// Path is the state snapshot file. The previous generation is
	// kept compressed alongside it as <path>.1.zst.
	// Default: ${WARDEN_ROOT}/state/warden.json
	Path string `yaml:"path"`

	// SaveInterval is how often the background saver persists state.
	// Mutations also persist synchronously; the interval is a safety
	// net against missed writes. Default: 5m
	SaveInterval Duration `yaml:"save_interval"`

	// InitRetries is how many load attempts are made at startup
	// before giving up. Default: 3
	InitRetries int `yaml:"init_retries"`

	// InitBackoff is the delay before the first retry; each
	// subsequent retry doubles it. Default: 1s
	InitBackoff Duration `yaml:"init_backoff"`

	// AllowFresh controls behavior when all load attempts fail with
	// transient I/O errors: true starts the agent with empty state
	// (logged loudly), false refuses to start. Corrupt snapshots
	// never fall back regardless of this setting.
	// Default: true (development), false (production)
	AllowFresh bool `yaml:"allow_fresh"`
}

// SocketConfig configures the control socket.
type SocketConfig struct {
	// Path is the Unix socket path the gateway frontend connects to.
	// Default: /run/warden/agent.sock
	Path string `yaml:"path"`
}

// GuardConfig configures antinuke audit correlation.
type GuardConfig struct {
	// AuditMaxAge is the oldest an admin-history entry may be and
	// still count as the actor of a destructive event. Default: 2m
	AuditMaxAge Duration `yaml:"audit_max_age"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file. They exist primarily to
// ensure all fields have sensible zero-values, not as a fallback -
// the config file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "warden")

	return &Config{
		Environment: Development,
		Platform: PlatformConfig{
			BaseURL:        "https://discord.com/api/v10",
			RequestTimeout: Duration(15 * time.Second),
		},
		State: StateConfig{
			Path:         filepath.Join(defaultRoot, "state", "warden.json"),
			SaveInterval: Duration(5 * time.Minute),
			InitRetries:  3,
			InitBackoff:  Duration(time.Second),
			AllowFresh:   true,
		},
		Socket: SocketConfig{
			Path: "/run/warden/agent.sock",
		},
		Guard: GuardConfig{
			AuditMaxAge: Duration(2 * time.Minute),
		},
	}
}

// Load loads configuration from the WARDEN_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit
// path. There are no fallbacks or defaults - if WARDEN_CONFIG is not
// set, this fails. This ensures deterministic, auditable
// configuration with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("WARDEN_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("WARDEN_CONFIG environment variable not set; " +
			"set it to the path of your warden.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment
// variables do not override config values. The only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production default: never start on empty state after a
		// failed load.
		c.State.AllowFresh = false
	}

	if overrides == nil {
		return
	}

	if overrides.Platform != nil {
		if overrides.Platform.BaseURL != "" {
			c.Platform.BaseURL = overrides.Platform.BaseURL
		}
		if overrides.Platform.TokenFile != "" {
			c.Platform.TokenFile = overrides.Platform.TokenFile
		}
		if overrides.Platform.RequestTimeout != 0 {
			c.Platform.RequestTimeout = overrides.Platform.RequestTimeout
		}
	}

	if overrides.State != nil {
		if overrides.State.Path != "" {
			c.State.Path = overrides.State.Path
		}
		if overrides.State.SaveInterval != 0 {
			c.State.SaveInterval = overrides.State.SaveInterval
		}
		if overrides.State.InitRetries != 0 {
			c.State.InitRetries = overrides.State.InitRetries
		}
		if overrides.State.InitBackoff != 0 {
			c.State.InitBackoff = overrides.State.InitBackoff
		}
		if overrides.State.AllowFresh != nil {
			c.State.AllowFresh = *overrides.State.AllowFresh
		}
	}

	if overrides.Socket != nil {
		if overrides.Socket.Path != "" {
			c.Socket.Path = overrides.Socket.Path
		}
	}

	if overrides.Guard != nil {
		if overrides.Guard.AuditMaxAge != 0 {
			c.Guard.AuditMaxAge = overrides.Guard.AuditMaxAge
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Platform.TokenFile = expandVars(c.Platform.TokenFile, vars)
	c.State.Path = expandVars(c.State.Path, vars)
	c.Socket.Path = expandVars(c.Socket.Path, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Platform.BaseURL == "" {
		errs = append(errs, fmt.Errorf("platform.base_url is required"))
	}
	if c.Platform.TokenFile == "" {
		errs = append(errs, fmt.Errorf("platform.token_file is required"))
	}
	if c.Owner.IsZero() {
		errs = append(errs, fmt.Errorf("owner is required"))
	}
	if c.State.Path == "" {
		errs = append(errs, fmt.Errorf("state.path is required"))
	}
	if c.State.SaveInterval <= 0 {
		errs = append(errs, fmt.Errorf("state.save_interval must be positive"))
	}
	if c.State.InitRetries < 1 {
		errs = append(errs, fmt.Errorf("state.init_retries must be at least 1"))
	}
	if c.Socket.Path == "" {
		errs = append(errs, fmt.Errorf("socket.path is required"))
	}
	if c.Guard.AuditMaxAge <= 0 {
		errs = append(errs, fmt.Errorf("guard.audit_max_age must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ReadToken reads the bot token from Platform.TokenFile, trimming
// trailing whitespace.
func (c *Config) ReadToken() (string, error) {
	data, err := os.ReadFile(c.Platform.TokenFile)
	if err != nil {
		return "", fmt.Errorf("reading platform token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("platform token file %s is empty", c.Platform.TokenFile)
	}
	return token, nil
}

// EnsurePaths creates the directories that hold the state snapshot
// and the control socket if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{
		filepath.Dir(c.State.Path),
		filepath.Dir(c.Socket.Path),
	} {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
