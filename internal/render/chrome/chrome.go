// Package chrome implements the render backend on chromedp.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/tkturners/thumbgen/internal/logging"
	"github.com/tkturners/thumbgen/internal/render"
)

// Name identifies this backend in configuration.
const Name = "chromedp"

// Backend captures pages with a chromedp-managed browser.
type Backend struct {
	opts   render.Options
	logger *slog.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
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

// Initialize launches the browser. ctx bounds the browser's lifetime.
func (b *Backend) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browserCtx != nil {
		return nil
	}

	execPath, err := render.FindBrowser(b.opts.BrowserPath)
	if err != nil {
		return err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.WindowSize(b.opts.ViewportWidth, b.opts.ViewportHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return fmt.Errorf("%w: launch chrome: %v", render.ErrEngineUnavailable, err)
	}

	b.browserCtx = browserCtx
	b.cancelBrowser = cancelBrowser
	b.cancelAlloc = cancelAlloc
	b.logger.Debug("browser launched", logging.FieldPath, execPath)
	return nil
}

// CaptureScreenshot implements render.Backend.
func (b *Backend) CaptureScreenshot(ctx context.Context, id, htmlPath, outputPath string) (string, error) {
	b.mu.Lock()
	browserCtx := b.browserCtx
	b.mu.Unlock()
	if browserCtx == nil {
		return "", render.ErrNotInitialized
	}

	fileURL, err := render.FileURL(htmlPath)
	if err != nil {
		return "", err
	}

	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	// Create the tab before any deadline applies so a timeout only aborts
	// the navigation, not the target itself.
	if err := chromedp.Run(tabCtx); err != nil {
		return "", fmt.Errorf("open tab: %w", err)
	}

	navCtx, cancelNav := context.WithTimeout(tabCtx, b.opts.NavigationTimeout)
	err = chromedp.Run(navCtx,
		chromedp.EmulateViewport(int64(b.opts.ViewportWidth), int64(b.opts.ViewportHeight),
			chromedp.EmulateScale(b.opts.DeviceScaleFactor)),
		chromedp.Navigate(fileURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	cancelNav()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("navigation timed out after %s: %w", b.opts.NavigationTimeout, err)
		}
		return "", fmt.Errorf("navigate: %w", err)
	}

	shotCtx, cancelShot := context.WithTimeout(tabCtx, b.opts.NavigationTimeout)
	defer cancelShot()

	buf, err := b.capture(shotCtx, id)
	if err != nil {
		return "", err
	}
	return render.WriteCapture(outputPath, buf, b.opts)
}

// capture screenshots the configured region, or the viewport when the
// region is absent.
func (b *Backend) capture(ctx context.Context, id string) ([]byte, error) {
	var buf []byte
	if sel := b.opts.Selector; sel != "" {
		var nodes []*cdp.Node
		if err := chromedp.Run(ctx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
			return nil, fmt.Errorf("locate region: %w", err)
		}
		if len(nodes) > 0 {
			if err := chromedp.Run(ctx, chromedp.Screenshot(sel, &buf, chromedp.ByQuery)); err != nil {
				return nil, fmt.Errorf("capture region: %w", err)
			}
			return buf, nil
		}
	}

	b.logger.Warn("region not found, capturing viewport",
		logging.FieldRecordID, id,
		"selector", b.opts.Selector,
	)
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture viewport: %w", err)
	}
	return buf, nil
}

// Close shuts the browser down. Calling it again, or before Initialize, is a
// no-op.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browserCtx == nil {
		return nil
	}
	b.cancelBrowser()
	b.cancelAlloc()
	b.browserCtx = nil
	b.cancelBrowser = nil
	b.cancelAlloc = nil
	return nil
}
