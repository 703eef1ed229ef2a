package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"icsnorm/internal/config"
)

func TestLoad_MissingFileCreatesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "icsnorm.yaml")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Refresh != "*/15 * * * *" {
		t.Errorf("unexpected default refresh: %q", cfg.Refresh)
	}
	if cfg.Timezone != "" {
		t.Errorf("default timezone should be empty (local zone), got %q", cfg.Timezone)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file perms = %o, want 600", perm)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "icsnorm.yaml")
	in := &config.Config{
		Timezone: "Europe/Berlin",
		Refresh:  "0 * * * *",
		CacheDir: "/tmp/ics-cache",
		Sources: []config.SourceConfig{
			{ID: "work", URL: "https://example.com/work.ics", Name: "Work"},
		},
	}
	if err := config.Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Timezone != in.Timezone || out.Refresh != in.Refresh || out.CacheDir != in.CacheDir {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
	if len(out.Sources) != 1 || out.Sources[0] != in.Sources[0] {
		t.Errorf("sources mismatch: %+v", out.Sources)
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	var cfg config.Config
	cfg.Normalize()

	if cfg.Refresh == "" || cfg.CacheDir == "" {
		t.Errorf("Normalize left zero values: %+v", cfg)
	}
	if cfg.Sources == nil {
		t.Error("Normalize must initialize the sources list")
	}
}

func TestEnvApply(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	e := config.Env{Timezone: "Asia/Seoul", CacheDir: "/var/cache/icsnorm"}
	e.Apply(cfg)

	if cfg.Timezone != "Asia/Seoul" {
		t.Errorf("timezone override not applied: %q", cfg.Timezone)
	}
	if cfg.CacheDir != "/var/cache/icsnorm" {
		t.Errorf("cache dir override not applied: %q", cfg.CacheDir)
	}

	config.Env{}.Apply(cfg)
	if cfg.Timezone != "Asia/Seoul" {
		t.Error("empty overrides must not clobber existing values")
	}
}
