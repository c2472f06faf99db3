// Copyright 2026 The Warden Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Platform.BaseURL != "https://discord.com/api/v10" {
		t.Errorf("unexpected platform base URL: %s", cfg.Platform.BaseURL)
	}
	if cfg.State.SaveInterval.Std() != 5*time.Minute {
		t.Errorf("expected save_interval=5m, got %s", cfg.State.SaveInterval)
	}
	if cfg.State.InitRetries != 3 {
		t.Errorf("expected init_retries=3, got %d", cfg.State.InitRetries)
	}
	if !cfg.State.AllowFresh {
		t.Error("expected allow_fresh=true for development")
	}
	if cfg.Socket.Path != "/run/warden/agent.sock" {
		t.Errorf("unexpected socket path: %s", cfg.Socket.Path)
	}
}

func TestLoad_RequiresWardenConfig(t *testing.T) {
	origConfig := os.Getenv("WARDEN_CONFIG")
	defer os.Setenv("WARDEN_CONFIG", origConfig)

	os.Unsetenv("WARDEN_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when WARDEN_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "WARDEN_CONFIG environment variable not set") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warden.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
environment: staging

owner: "1101467683083530331"

platform:
  base_url: https://chat.example.com/api
  token_file: /etc/warden/token
  request_timeout: 30s

state:
  path: /var/lib/warden/state.json
  save_interval: 10m
  init_retries: 5

socket:
  path: /tmp/warden.sock

guard:
  audit_max_age: 90s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.Owner.String() != "1101467683083530331" {
		t.Errorf("unexpected owner: %s", cfg.Owner)
	}
	if cfg.Platform.BaseURL != "https://chat.example.com/api" {
		t.Errorf("unexpected base URL: %s", cfg.Platform.BaseURL)
	}
	if cfg.Platform.RequestTimeout.Std() != 30*time.Second {
		t.Errorf("unexpected request timeout: %s", cfg.Platform.RequestTimeout)
	}
	if cfg.State.SaveInterval.Std() != 10*time.Minute {
		t.Errorf("unexpected save interval: %s", cfg.State.SaveInterval)
	}
	if cfg.State.InitRetries != 5 {
		t.Errorf("unexpected init retries: %d", cfg.State.InitRetries)
	}
	if cfg.Guard.AuditMaxAge.Std() != 90*time.Second {
		t.Errorf("unexpected audit max age: %s", cfg.Guard.AuditMaxAge)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed on complete config: %v", err)
	}
}

func TestLoadFile_ProductionDisablesFreshFallback(t *testing.T) {
	path := writeConfig(t, `
environment: production
owner: "1101467683083530331"
platform:
  token_file: /etc/warden/token
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.State.AllowFresh {
		t.Error("expected allow_fresh=false in production")
	}
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: staging
owner: "1101467683083530331"
platform:
  token_file: /etc/warden/token

staging:
  socket:
    path: /run/warden/staging.sock
  guard:
    audit_max_age: 45s
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Socket.Path != "/run/warden/staging.sock" {
		t.Errorf("staging socket override not applied: %s", cfg.Socket.Path)
	}
	if cfg.Guard.AuditMaxAge.Std() != 45*time.Second {
		t.Errorf("staging guard override not applied: %s", cfg.Guard.AuditMaxAge)
	}
}

func TestLoadFile_StateOverrideKeepsAllowFresh(t *testing.T) {
	path := writeConfig(t, `
environment: development
owner: "1101467683083530331"
platform:
  token_file: /etc/warden/token

development:
  state:
    save_interval: 10m
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.State.SaveInterval.Std() != 10*time.Minute {
		t.Errorf("save_interval override not applied: %s", cfg.State.SaveInterval)
	}
	if !cfg.State.AllowFresh {
		t.Error("allow_fresh flipped by an override block that never mentions it")
	}
}

func TestLoadFile_StateOverrideAppliesAllowFresh(t *testing.T) {
	path := writeConfig(t, `
environment: development
owner: "1101467683083530331"
platform:
  token_file: /etc/warden/token

development:
  state:
    allow_fresh: false
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.State.AllowFresh {
		t.Error("explicit allow_fresh=false override not applied")
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	t.Setenv("WARDEN_TEST_DIR", "/opt/warden")

	path := writeConfig(t, `
owner: "1101467683083530331"
platform:
  token_file: ${WARDEN_TEST_DIR}/token
state:
  path: ${WARDEN_TEST_UNSET:-/var/lib/warden}/state.json
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Platform.TokenFile != "/opt/warden/token" {
		t.Errorf("token_file expansion: got %s", cfg.Platform.TokenFile)
	}
	if cfg.State.Path != "/var/lib/warden/state.json" {
		t.Errorf("state.path default expansion: got %s", cfg.State.Path)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := Default()
	// No owner and no token file set.
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	message := err.Error()
	for _, want := range []string{"owner is required", "platform.token_file is required"} {
		if !strings.Contains(message, want) {
			t.Errorf("validation error missing %q: %s", want, message)
		}
	}
}

func TestValidate_RejectsBogusEnvironment(t *testing.T) {
	cfg := Default()
	cfg.Environment = "qa"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "invalid environment") {
		t.Fatalf("expected invalid environment error, got %v", err)
	}
}

func TestReadToken(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenPath, []byte("bot-token-value\n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	cfg := Default()
	cfg.Platform.TokenFile = tokenPath

	token, err := cfg.ReadToken()
	if err != nil {
		t.Fatalf("ReadToken failed: %v", err)
	}
	if token != "bot-token-value" {
		t.Errorf("ReadToken = %q, want trimmed token", token)
	}
}

func TestReadToken_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	tokenPath := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenPath, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	cfg := Default()
	cfg.Platform.TokenFile = tokenPath

	if _, err := cfg.ReadToken(); err == nil {
		t.Fatal("expected error for empty token file")
	}
}
