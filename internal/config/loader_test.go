package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OutputDir != "gen" {
		t.Fatalf("expected default output dir gen, got %s", cfg.OutputDir)
	}
	if cfg.ChangelogPath != "gen/CHANGELOG.md" {
		t.Fatalf("unexpected changelog path %s", cfg.ChangelogPath)
	}
	if cfg.LogMode != "dev" {
		t.Fatalf("expected dev log mode, got %s", cfg.LogMode)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr %s", cfg.ListenAddr)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`generate:
  output_dir: out
  report_path: out/matrix.xlsx
log:
  mode: prod
server:
  listen_addr: ":9090"
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OutputDir != "out" {
		t.Fatalf("expected output dir out, got %s", cfg.OutputDir)
	}
	if cfg.ReportPath != "out/matrix.xlsx" {
		t.Fatalf("unexpected report path %s", cfg.ReportPath)
	}
	if cfg.LogMode != "prod" {
		t.Fatalf("expected prod log mode, got %s", cfg.LogMode)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr %s", cfg.ListenAddr)
	}
	// Unset keys keep their defaults.
	if cfg.ChangelogPath != "gen/CHANGELOG.md" {
		t.Fatalf("unexpected changelog path %s", cfg.ChangelogPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VERGE_GENERATE_OUTPUT_DIR", "envgen")
	t.Setenv("VERGE_LOG_MODE", "prod")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OutputDir != "envgen" {
		t.Fatalf("expected env override envgen, got %s", cfg.OutputDir)
	}
	if cfg.LogMode != "prod" {
		t.Fatalf("expected env override prod, got %s", cfg.LogMode)
	}
}
