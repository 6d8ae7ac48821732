package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.PollInterval(); got != 5*time.Minute {
		t.Errorf("PollInterval = %v, want 5m", got)
	}
	if got := cfg.TaggerTimeout(); got != 30*time.Second {
		t.Errorf("TaggerTimeout = %v, want 30s", got)
	}
	if got := cfg.ScriptTimeout(); got != 60*time.Second {
		t.Errorf("ScriptTimeout = %v, want 60s", got)
	}
	if got := cfg.ThumbnailMaxSize(); got != 300 {
		t.Errorf("ThumbnailMaxSize = %d, want 300", got)
	}
	if got := cfg.DatabasePath(); got != "photovault.db" {
		t.Errorf("DatabasePath = %q, want photovault.db", got)
	}
	if got := cfg.RepositoryRemote(); got != "origin" {
		t.Errorf("RepositoryRemote = %q, want origin", got)
	}
}

func TestRepositoryRemoteOverride(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Set(KeyRepositoryRemote, "upstream")
	if got := cfg.RepositoryRemote(); got != "upstream" {
		t.Errorf("RepositoryRemote = %q, want upstream", got)
	}
	cfg.Set(KeyRepositoryRemote, "")
	if got := cfg.RepositoryRemote(); got != "origin" {
		t.Errorf("blank remote should fall back, got %q", got)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PHOTOVAULT_REPOSITORY_POLL_INTERVAL_MINUTES", "12")
	t.Setenv("PHOTOVAULT_HTTP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.PollInterval(); got != 12*time.Minute {
		t.Errorf("PollInterval = %v, want 12m from env", got)
	}
	if got := cfg.HTTPPort(); got != "9090" {
		t.Errorf("HTTPPort = %q, want 9090 from env", got)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Set(KeyPollIntervalMin, -1)
	cfg.Set(KeyThumbnailMaxSize, 0)

	if got := cfg.PollInterval(); got != 5*time.Minute {
		t.Errorf("negative interval should fall back, got %v", got)
	}
	if got := cfg.ThumbnailMaxSize(); got != 300 {
		t.Errorf("zero max size should fall back, got %d", got)
	}
}

func TestRepositoryPathIsAbsolute(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Set(KeyRepositoryPath, "photos")

	got := cfg.RepositoryPath()
	if !filepath.IsAbs(got) {
		t.Errorf("RepositoryPath = %q, want absolute", got)
	}

	wd, _ := os.Getwd()
	if got != filepath.Join(wd, "photos") {
		t.Errorf("RepositoryPath = %q, want %q", got, filepath.Join(wd, "photos"))
	}

	if dir := cfg.ThumbnailsDir(); dir != filepath.Join(got, ThumbnailsSubDir) {
		t.Errorf("ThumbnailsDir = %q, want inside repository", dir)
	}
}

func TestGetProperty(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.GetProperty("tagger.executable", "python3"); got != "python3" {
		t.Errorf("unset key = %q, want default python3", got)
	}
	cfg.Set("tagger.executable", "/usr/bin/python3")
	if got := cfg.GetProperty("tagger.executable", "python3"); got != "/usr/bin/python3" {
		t.Errorf("set key = %q, want configured value", got)
	}
}
