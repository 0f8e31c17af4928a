package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tasksync/internal/config"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config.toml: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv(config.EnvEndpoint, "")
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "" {
		t.Errorf("expected empty endpoint, got %q", cfg.Endpoint)
	}
	if cfg.Theme != config.ThemeDark {
		t.Errorf("expected theme %q, got %q", config.ThemeDark, cfg.Theme)
	}
	if cfg.Auth != config.AuthOAuth {
		t.Errorf("expected auth %q, got %q", config.AuthOAuth, cfg.Auth)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", cfg.Timeout)
	}
}

func TestNew_ReadsConfigFile(t *testing.T) {
	t.Setenv(config.EnvEndpoint, "")
	dir := t.TempDir()
	writeConfig(t, dir, `
endpoint = "https://tasks.example.com"
theme = "light"
auth = "none"
timeout = "3s"
`)

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "https://tasks.example.com" {
		t.Errorf("unexpected endpoint %q", cfg.Endpoint)
	}
	if cfg.Theme != config.ThemeLight {
		t.Errorf("unexpected theme %q", cfg.Theme)
	}
	if cfg.Auth != config.AuthNone {
		t.Errorf("unexpected auth %q", cfg.Auth)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Timeout)
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `endpoint = "https://file.example.com"`)
	t.Setenv(config.EnvEndpoint, "https://env.example.com")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "https://env.example.com" {
		t.Errorf("expected env endpoint, got %q", cfg.Endpoint)
	}
}

func TestNew_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `endpoint = `)

	if _, err := config.New(dir); err == nil {
		t.Fatal("expected error for malformed config.toml")
	}
}

func TestNew_InvalidTimeout(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `timeout = "soon"`)

	if _, err := config.New(dir); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestValidate(t *testing.T) {
	cfg := &config.Config{Theme: config.ThemeDark, Auth: config.AuthOAuth}
	if err := cfg.Validate(); !errors.Is(err, config.ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}

	cfg.Endpoint = "ftp://tasks.example.com"
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for non-http endpoint, got %v", err)
	}

	cfg.Endpoint = "https://tasks.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Auth = "saml"
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown auth mode, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv(config.EnvEndpoint, "")
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &config.Config{
		Dir:      dir,
		Endpoint: "http://localhost:8080",
		Theme:    config.ThemeLight,
		Auth:     config.AuthNone,
		Timeout:  2 * time.Second,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Endpoint != cfg.Endpoint || loaded.Theme != cfg.Theme || loaded.Auth != cfg.Auth || loaded.Timeout != cfg.Timeout {
		t.Errorf("round trip mismatch: got %+v", loaded)
	}
}

func TestLog_NilLoggerDiscards(t *testing.T) {
	cfg := &config.Config{}
	if cfg.Log() == nil {
		t.Fatal("expected a usable logger")
	}
	cfg.Log().Info("dropped")
}
