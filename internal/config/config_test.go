package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, path, exists, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected no config file, got %s", path)
	}
	root, _ := filepath.EvalSymlinks(dir)
	gotRoot, _ := filepath.EvalSymlinks(cfg.Paths.Root)
	if gotRoot != root {
		t.Fatalf("root = %s, want %s", gotRoot, root)
	}
	if !strings.HasSuffix(cfg.Paths.Catalog, filepath.Join("data", "thumbnails.json")) {
		t.Fatalf("unexpected catalog path %s", cfg.Paths.Catalog)
	}
	if !filepath.IsAbs(cfg.Paths.Output) {
		t.Fatalf("output path should be absolute, got %s", cfg.Paths.Output)
	}
	if !cfg.Output.PerRecordFolders || !cfg.Output.CopyAssets {
		t.Fatalf("expected per-record folders and asset copy on by default")
	}
	if cfg.Capture.ViewportWidth != 1920 || cfg.Capture.ViewportHeight != 1080 {
		t.Fatalf("unexpected viewport %dx%d", cfg.Capture.ViewportWidth, cfg.Capture.ViewportHeight)
	}
	if cfg.NavigationTimeout().Seconds() != 30 {
		t.Fatalf("unexpected navigation timeout %s", cfg.NavigationTimeout())
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	content := `
[paths]
root = "` + filepath.ToSlash(dir) + `"
output = "build"

[capture]
backend = "rod"
format = "jpg"
quality = 80
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("USE_GIG_FOLDERS", "false")
	t.Setenv("SCREENSHOT_SUBFOLDER", "shots")
	t.Setenv("VIEWPORT_WIDTH", "1280")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config file %s to be used, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Paths.Output != filepath.Join(dir, "build") {
		t.Fatalf("output = %s", cfg.Paths.Output)
	}
	if cfg.Capture.Backend != BackendRod || cfg.Capture.Format != FormatJPEG || cfg.Capture.Quality != 80 {
		t.Fatalf("capture settings not applied: %+v", cfg.Capture)
	}
	if cfg.Output.PerRecordFolders {
		t.Fatal("USE_GIG_FOLDERS=false should disable per-record folders")
	}
	if cfg.Output.ScreenshotSubfolder != "shots" {
		t.Fatalf("screenshot subfolder = %q", cfg.Output.ScreenshotSubfolder)
	}
	if cfg.Capture.ViewportWidth != 1280 {
		t.Fatalf("viewport width = %d", cfg.Capture.ViewportWidth)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Capture.Backend = "webkit" }},
		{"unknown format", func(c *Config) { c.Capture.Format = "webp" }},
		{"quality too high", func(c *Config) { c.Capture.Quality = 101 }},
		{"zero viewport", func(c *Config) { c.Capture.ViewportHeight = 0 }},
		{"nested subfolder", func(c *Config) { c.Output.ScreenshotSubfolder = "a/b" }},
		{"empty subfolder", func(c *Config) { c.Output.ScreenshotSubfolder = "" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyEnvRejectsNonNumericQuality(t *testing.T) {
	cfg := Default()
	lookup := func(key string) (string, bool) {
		if key == "SCREENSHOT_QUALITY" {
			return "high", true
		}
		return "", false
	}
	if err := cfg.applyEnv(lookup); err == nil {
		t.Fatal("expected error for non-numeric quality")
	}
}

func TestLogFile(t *testing.T) {
	cfg := Default()
	cfg.Paths.Logs = "/var/log/thumbgen"
	if got := cfg.LogFile(); got != "" {
		t.Fatalf("expected no log file when disabled, got %s", got)
	}
	cfg.Logging.ToFile = true
	if got := cfg.LogFile(); got != filepath.Join("/var/log/thumbgen", "app.log") {
		t.Fatalf("LogFile = %s", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "thumbgen.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if err := CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
