package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SUBSPORTAL_CONFIG", "")
	chdir(t, t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.API.BaseURL != "http://localhost:8080/api/subcontractors" {
		t.Errorf("api.base_url = %q", c.API.BaseURL)
	}
	if c.API.Timeout != 0 {
		t.Errorf("api.timeout = %v, want 0", c.API.Timeout)
	}
	if c.Auth.Mode != AuthStatic {
		t.Errorf("auth.mode = %q, want %q", c.Auth.Mode, AuthStatic)
	}
	if want := filepath.Join(home, ".local", "share", "subsportal", "subsportal.db"); c.Database.Path != want {
		t.Errorf("database.path = %q, want %q", c.Database.Path, want)
	}
	if !c.UI.DevHints {
		t.Error("ui.dev_hints should default to true")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	path := filepath.Join(dir, "config.toml")
	body := []byte(`
[api]
base_url = "https://api.example.test/api/subcontractors"
timeout = "5s"

[auth]
mode = "remote"
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SUBSPORTAL_CONFIG", path)
	t.Setenv("SUBSPORTAL_LOG_LEVEL", "debug")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.API.BaseURL != "https://api.example.test/api/subcontractors" {
		t.Errorf("api.base_url = %q", c.API.BaseURL)
	}
	if c.API.Timeout != 5*time.Second {
		t.Errorf("api.timeout = %v, want 5s", c.API.Timeout)
	}
	if c.Auth.Mode != AuthRemote {
		t.Errorf("auth.mode = %q, want remote", c.Auth.Mode)
	}
	if c.Log.Level != "debug" {
		t.Errorf("env override lost: log.level = %q", c.Log.Level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("SUBSPORTAL_CONFIG", "")
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SUBSPORTAL_UI_DEV_HINTS=false\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SUBSPORTAL_UI_DEV_HINTS") })

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.UI.DevHints {
		t.Fatal(".env value not applied")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("SUBSPORTAL_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	good := Config{Auth: AuthConfig{Mode: AuthStatic}, Database: DatabaseConfig{Path: "x.db"}}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate(good): %v", err)
	}

	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"auth mode", func(c *Config) { c.Auth.Mode = "oauth" }, "auth.mode"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"blank db path", func(c *Config) { c.Database.Path = " " }, "database.path"},
	}
	for _, tc := range tests {
		c := good
		tc.edit(&c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: Validate() = %v, want error mentioning %q", tc.name, err, tc.want)
		}
	}
}

func TestPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SUBSPORTAL_CONFIG", "")
	if want := filepath.Join(home, ".config", "subsportal", "config.toml"); Path() != want {
		t.Fatalf("Path() = %q, want %q", Path(), want)
	}
	t.Setenv("SUBSPORTAL_CONFIG", "/tmp/elsewhere.toml")
	if Path() != "/tmp/elsewhere.toml" {
		t.Fatalf("Path() = %q, want explicit file", Path())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv("SUBSPORTAL_CONFIG", path)

	in := Config{
		API:      APIConfig{BaseURL: "http://127.0.0.1:9999/api/subcontractors", Timeout: 3 * time.Second},
		Database: DatabaseConfig{Path: filepath.Join(dir, "s.db")},
		Auth:     AuthConfig{Mode: AuthRemote},
		Log:      LogConfig{Path: "", Level: "warn"},
		UI:       UIConfig{DevHints: false},
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if out.API != in.API || out.Auth != in.Auth || out.Database != in.Database {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
	if out.Log.Level != "warn" || out.UI.DevHints {
		t.Fatalf("round trip lost log/ui settings: %+v", out)
	}
}
