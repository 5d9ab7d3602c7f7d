package chrome

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tkturners/thumbgen/internal/render"
	"github.com/tkturners/thumbgen/internal/render/rendertest"
)

func TestCloseWithoutInitialize(t *testing.T) {
	b := New(render.Options{}, nil)
	for i := 0; i < 2; i++ {
		if err := b.Close(); err != nil {
			t.Fatalf("Close() #%d = %v", i, err)
		}
	}
}

func TestCaptureBeforeInitialize(t *testing.T) {
	b := New(render.Options{}, nil)
	_, err := b.CaptureScreenshot(context.Background(), "x", "a.html", "a.png")
	if !errors.Is(err, render.ErrNotInitialized) {
		t.Fatalf("CaptureScreenshot() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitializeMissingBrowser(t *testing.T) {
	b := New(render.Options{BrowserPath: filepath.Join(t.TempDir(), "missing-chrome")}, nil)
	if err := b.Initialize(context.Background()); !errors.Is(err, render.ErrEngineUnavailable) {
		t.Fatalf("Initialize() error = %v, want ErrEngineUnavailable", err)
	}
}

func TestCaptureRegionAndFallback(t *testing.T) {
	opts := rendertest.Options(t)
	ctx := context.Background()

	b := New(opts, nil)
	if err := b.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer b.Close()

	regionOut := filepath.Join(t.TempDir(), "shots", "region.png")
	if _, err := b.CaptureScreenshot(ctx, "region", rendertest.WritePage(t, rendertest.RegionPage), regionOut); err != nil {
		t.Fatalf("region capture: %v", err)
	}
	if w, h := rendertest.PNGSize(t, regionOut); w != 320 || h != 180 {
		t.Errorf("region capture = %dx%d, want 320x180", w, h)
	}

	fallbackOut := filepath.Join(t.TempDir(), "fallback.png")
	if _, err := b.CaptureScreenshot(ctx, "plain", rendertest.WritePage(t, rendertest.PlainPage), fallbackOut); err != nil {
		t.Fatalf("fallback capture: %v", err)
	}
	if w, h := rendertest.PNGSize(t, fallbackOut); w != 800 || h != 600 {
		t.Errorf("fallback capture = %dx%d, want viewport 800x600", w, h)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
