package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tkturners/thumbgen/internal/config"
)

func TestFileURL(t *testing.T) {
	got, err := FileURL("/tmp/out/promo 1/promo-1.html")
	if err != nil {
		t.Fatal(err)
	}
	if got != "file:///tmp/out/promo%201/promo-1.html" {
		t.Errorf("FileURL() = %q", got)
	}

	rel, err := FileURL("promo-1.html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rel, "file:///") || !strings.HasSuffix(rel, "/promo-1.html") {
		t.Errorf("relative FileURL() = %q", rel)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Capture.Format = config.FormatJPEG
	cfg.Capture.Quality = 85
	cfg.Capture.MaxWidth = 1280

	opts := OptionsFromConfig(&cfg)
	if opts.ViewportWidth != 1920 || opts.ViewportHeight != 1080 {
		t.Errorf("viewport = %dx%d", opts.ViewportWidth, opts.ViewportHeight)
	}
	if opts.NavigationTimeout != 30*time.Second {
		t.Errorf("timeout = %v", opts.NavigationTimeout)
	}
	if opts.Image.Format != "jpeg" || opts.Image.Quality != 85 || opts.Image.MaxWidth != 1280 {
		t.Errorf("image options = %+v", opts.Image)
	}
	if opts.Selector != ".relative.w-full.max-w-4xl" {
		t.Errorf("selector = %q", opts.Selector)
	}
}

func TestFindBrowserExplicitMissing(t *testing.T) {
	_, err := FindBrowser(filepath.Join(t.TempDir(), "no-such-chrome"))
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Fatalf("FindBrowser() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestFindBrowserExplicitExecutable(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "fake-chrome")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindBrowser(bin)
	if err != nil {
		t.Fatalf("FindBrowser: %v", err)
	}
	if got != bin {
		t.Errorf("FindBrowser() = %q, want %q", got, bin)
	}
}

func TestWriteCaptureRejectsEmpty(t *testing.T) {
	if _, err := WriteCapture(filepath.Join(t.TempDir(), "x.png"), nil, Options{}); err == nil {
		t.Fatal("expected error for empty capture")
	}
}
