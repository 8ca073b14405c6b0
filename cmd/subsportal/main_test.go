package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SUBSPORTAL_CONFIG", "")
	t.Setenv("SUBSPORTAL_DATABASE_PATH", filepath.Join(home, "subsportal.db"))
	chdir(t, home)
	t.Cleanup(func() {
		configForce, logoutAll, whoamiRemote = false, false, false
	})
	return home
}

func TestConfigInitWritesOnce(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".config", "subsportal", "config.toml")

	out, err := runCLI(t, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("output does not name the file:\n%s", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := runCLI(t, "config", "init"); err == nil {
		t.Fatal("second init overwrote the file without --force")
	}
	if out, err := runCLI(t, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force: %v\n%s", err, out)
	}
	configForce = false

	out, err = runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"auth.mode       static", "api.base_url    http://localhost:8080/api/subcontractors"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestLoginWhoamiLogoutAll(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "login", "--email", "subsadmin@gmail.com", "--password", "wrong")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Fatalf("bad login: err=%v out=%s", err, out)
	}

	out, err = runCLI(t, "login", "--email", "subsadmin@gmail.com", "--password", "123456")
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	if !strings.Contains(out, "signed in as Admin (subcontractor)") {
		t.Fatalf("login output:\n%s", out)
	}

	out, err = runCLI(t, "whoami")
	if err != nil || !strings.Contains(out, "Admin (subcontractor)") {
		t.Fatalf("whoami after login: err=%v out=%s", err, out)
	}

	if out, err := runCLI(t, "logout", "--all"); err != nil {
		t.Fatalf("logout --all: %v\n%s", err, out)
	}
	out, err = runCLI(t, "whoami")
	if err != nil || !strings.Contains(out, "not signed in") {
		t.Fatalf("whoami after logout: err=%v out=%s", err, out)
	}
}
