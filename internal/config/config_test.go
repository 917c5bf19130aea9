package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("", false)
	if err != nil {
		t.Fatal(err)
	}

	wantDir := filepath.Join(home, DefaultConfigDir)
	if cfg.ConfigDir != wantDir {
		t.Errorf("config dir = %q, want %q", cfg.ConfigDir, wantDir)
	}
	if cfg.LogPath != filepath.Join(wantDir, DefaultLogFile) {
		t.Errorf("log path = %q", cfg.LogPath)
	}
	if cfg.PacksDir != filepath.Join(wantDir, PacksDirName) {
		t.Errorf("packs dir = %q", cfg.PacksDir)
	}

	info, err := os.Stat(wantDir)
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("config dir permissions = %04o, want 0700", perm)
	}
}

func TestLoad_ExplicitLogPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("/var/log/guard.jsonl", false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogPath != "/var/log/guard.jsonl" {
		t.Errorf("explicit log path not honored: %q", cfg.LogPath)
	}
}

func TestLoad_ExplainFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvExplain, "1")

	cfg, err := Load("", false)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Explain {
		t.Error("explain env toggle ignored")
	}
}

func TestLoad_ExplainFlagWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvExplain, "")

	cfg, err := Load("", true)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Explain {
		t.Error("explain flag ignored")
	}
}

func TestBypassEnabled(t *testing.T) {
	t.Setenv(EnvBypass, "")
	if BypassEnabled() {
		t.Error("bypass enabled without env")
	}
	t.Setenv(EnvBypass, "1")
	if !BypassEnabled() {
		t.Error("bypass env ignored")
	}
	t.Setenv(EnvBypass, "true")
	if BypassEnabled() {
		t.Error("bypass accepts only the literal 1")
	}
}
