// Package rodengine implements the render backend on go-rod.
package rodengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tkturners/thumbgen/internal/logging"
	"github.com/tkturners/thumbgen/internal/render"
)

// Name identifies this backend in configuration.
const Name = "rod"

// Backend captures pages with a rod-managed browser.
type Backend struct {
	opts   render.Options
	logger *slog.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

var _ render.Backend = (*Backend)(nil)

// New returns an uninitialized backend.
func New(opts render.Options, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Backend{
		opts:   opts,
		logger: logger.With(logging.FieldComponent, Name),
	}
}

// Name implements render.Backend.
func (b *Backend) Name() string { return Name }

// Initialize launches and connects to the browser.
func (b *Backend) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return nil
	}

	execPath, err := render.FindBrowser(b.opts.BrowserPath)
	if err != nil {
		return err
	}

	l := launcher.New().
		Context(ctx).
		Bin(execPath).
		Headless(true).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-accelerated-2d-canvas").
		Set("no-first-run")

	controlURL, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return fmt.Errorf("%w: launch browser: %v", render.ErrEngineUnavailable, err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: connect to browser: %v", render.ErrEngineUnavailable, err)
	}

	b.launcher = l
	b.browser = browser
	b.logger.Debug("browser launched", logging.FieldPath, execPath)
	return nil
}

// CaptureScreenshot implements render.Backend.
func (b *Backend) CaptureScreenshot(ctx context.Context, id, htmlPath, outputPath string) (string, error) {
	b.mu.Lock()
	browser := b.browser
	b.mu.Unlock()
	if browser == nil {
		return "", render.ErrNotInitialized
	}

	fileURL, err := render.FileURL(htmlPath)
	if err != nil {
		return "", err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			b.logger.Debug("failed to close page", logging.FieldRecordID, id, "error", cerr)
		}
	}()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.opts.ViewportWidth,
		Height:            b.opts.ViewportHeight,
		DeviceScaleFactor: b.opts.DeviceScaleFactor,
	}); err != nil {
		return "", fmt.Errorf("set viewport: %w", err)
	}

	nav := page.Timeout(b.opts.NavigationTimeout)
	if err := nav.Navigate(fileURL); err != nil {
		return "", navError(err, b.opts)
	}
	if err := nav.WaitLoad(); err != nil {
		return "", navError(err, b.opts)
	}
	nav.CancelTimeout()

	buf, err := b.capture(page.Timeout(b.opts.NavigationTimeout), id)
	if err != nil {
		return "", err
	}
	return render.WriteCapture(outputPath, buf, b.opts)
}

func navError(err error, opts render.Options) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("navigation timed out after %s: %w", opts.NavigationTimeout, err)
	}
	return fmt.Errorf("navigate: %w", err)
}

// capture screenshots the configured region, or the viewport when the
// region is absent.
func (b *Backend) capture(page *rod.Page, id string) ([]byte, error) {
	if sel := b.opts.Selector; sel != "" {
		found, el, err := page.Has(sel)
		if err != nil {
			return nil, fmt.Errorf("locate region: %w", err)
		}
		if found {
			buf, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
			if err != nil {
				return nil, fmt.Errorf("capture region: %w", err)
			}
			return buf, nil
		}
	}

	b.logger.Warn("region not found, capturing viewport",
		logging.FieldRecordID, id,
		"selector", b.opts.Selector,
	)
	buf, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("capture viewport: %w", err)
	}
	return buf, nil
}

// Close disconnects and stops the browser. Calling it again, or before
// Initialize, is a no-op.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Cleanup()
	b.browser = nil
	b.launcher = nil
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}
