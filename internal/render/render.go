// Package render defines the contract every headless rendering backend
// implements, plus the options and helpers they share.
package render

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/images"
)

var (
	// ErrEngineUnavailable indicates the rendering engine could not be started.
	ErrEngineUnavailable = errors.New("rendering engine unavailable")
	// ErrNotInitialized indicates a capture was requested before Initialize.
	ErrNotInitialized = errors.New("render backend not initialized")
)

// Backend drives one headless rendering engine.
//
// Initialize acquires the engine once per run. CaptureScreenshot opens a
// fresh surface for each call, loads the local document at htmlPath, and
// writes an image of the configured region to outputPath, falling back to the
// visible viewport when the region is absent. The surface is released before
// it returns. Close releases the engine; it is idempotent and safe to call
// when Initialize never ran.
type Backend interface {
	Name() string
	Initialize(ctx context.Context) error
	CaptureScreenshot(ctx context.Context, id, htmlPath, outputPath string) (string, error)
	Close() error
}

// Options holds the run-wide capture settings.
type Options struct {
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
	Selector          string
	NavigationTimeout time.Duration
	BrowserPath       string
	Image             images.Options
}

// OptionsFromConfig derives capture options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ViewportWidth:     cfg.Capture.ViewportWidth,
		ViewportHeight:    cfg.Capture.ViewportHeight,
		DeviceScaleFactor: cfg.Capture.DeviceScaleFactor,
		Selector:          cfg.Capture.Selector,
		NavigationTimeout: cfg.NavigationTimeout(),
		BrowserPath:       cfg.Capture.BrowserPath,
		Image: images.Options{
			Format:   cfg.Capture.Format,
			Quality:  cfg.Capture.Quality,
			MaxWidth: cfg.Capture.MaxWidth,
		},
	}
}

// FileURL returns the file:// URL for a local document.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve html path: %w", err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

// browserNames are tried in order when no explicit browser path is set.
var browserNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// FindBrowser resolves the Chrome/Chromium executable. An explicit path must
// resolve; otherwise the first known name on PATH wins.
func FindBrowser(explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		resolved, err := exec.LookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: browser %q not found: %v", ErrEngineUnavailable, explicit, err)
		}
		return resolved, nil
	}
	for _, name := range browserNames {
		if resolved, err := exec.LookPath(name); err == nil {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium binary on PATH (tried %s)", ErrEngineUnavailable, strings.Join(browserNames, ", "))
}

// WriteCapture encodes captured PNG bytes per opts and writes them to path.
func WriteCapture(path string, pngData []byte, opts Options) (string, error) {
	if len(pngData) == 0 {
		return "", errors.New("engine returned an empty capture")
	}
	if _, err := images.Write(path, pngData, opts.Image); err != nil {
		return "", err
	}
	return path, nil
}
