package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/BlockFit/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultContainerWidth = 120
	cfg.DefaultCost = model.CostOriginDistance
	cfg.DefaultAllowRotation = false
	cfg.LogLevel = "debug"
	cfg.RecentJobs = []string{"/tmp/crate.toml", "/tmp/blocks.json"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultContainerWidth != 120 || loaded.DefaultContainerHeight != 300 {
		t.Errorf("unexpected container %dx%d", loaded.DefaultContainerWidth, loaded.DefaultContainerHeight)
	}
	if loaded.DefaultCost != model.CostOriginDistance {
		t.Errorf("expected origin-distance, got %q", loaded.DefaultCost)
	}
	if loaded.DefaultAllowRotation {
		t.Error("expected rotation to stay disabled")
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", loaded.LogLevel)
	}
	if len(loaded.RecentJobs) != 2 {
		t.Errorf("expected 2 recent jobs, got %d", len(loaded.RecentJobs))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.DefaultContainerWidth != 350 || cfg.DefaultContainerHeight != 300 {
		t.Errorf("expected default 350x300 container, got %dx%d", cfg.DefaultContainerWidth, cfg.DefaultContainerHeight)
	}
	if cfg.RecentJobs == nil {
		t.Error("expected non-nil RecentJobs")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_container_width": 80, "recent_jobs": null}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultContainerWidth != 80 {
		t.Errorf("expected width 80, got %d", cfg.DefaultContainerWidth)
	}
	if cfg.DefaultContainerHeight != 300 || cfg.LogLevel != "info" || !cfg.DefaultAllowRotation {
		t.Errorf("expected omitted keys to keep defaults, got %+v", cfg)
	}
	if cfg.RecentJobs == nil {
		t.Error("expected null RecentJobs to be normalised")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("expected the path in the error, got %v", err)
	}
}

func TestDefaultPathsShareConfigDir(t *testing.T) {
	dir := DefaultConfigDir()
	if filepath.Base(dir) != ".blockfit" {
		t.Errorf("unexpected config dir %s", dir)
	}
	if filepath.Dir(DefaultConfigPath()) != dir || filepath.Dir(DefaultTemplatePath()) != dir {
		t.Error("expected config and templates to live in the config dir")
	}
}
