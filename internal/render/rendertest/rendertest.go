// Package rendertest holds helpers shared by the browser backend tests.
package rendertest

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tkturners/thumbgen/internal/images"
	"github.com/tkturners/thumbgen/internal/render"
)

// RegionPage contains the default capture region at a fixed size.
const RegionPage = `<!DOCTYPE html><html><body style="margin:0;background:#000">
<div class="relative w-full max-w-4xl" style="width:320px;height:180px;background:#95BF47"></div>
</body></html>`

// PlainPage has no capture region.
const PlainPage = `<!DOCTYPE html><html><body style="margin:0;background:#5E8E3E"><p>no region</p></body></html>`

// Options returns small-viewport capture options, skipping the test when no
// browser is installed.
func Options(t *testing.T) render.Options {
	t.Helper()
	browser, err := render.FindBrowser(os.Getenv("CHROME_PATH"))
	if err != nil {
		t.Skipf("no browser available: %v", err)
	}
	return render.Options{
		ViewportWidth:     800,
		ViewportHeight:    600,
		DeviceScaleFactor: 1,
		Selector:          ".relative.w-full.max-w-4xl",
		NavigationTimeout: 30 * time.Second,
		BrowserPath:       browser,
		Image:             images.Options{Format: images.FormatPNG, Quality: 100},
	}
}

// WritePage stores html in a temp dir and returns its path.
func WritePage(t *testing.T, html string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// PNGSize decodes the PNG at path and returns its dimensions.
func PNGSize(t *testing.T, path string) (int, int) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read capture: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("capture is not a png: %v", err)
	}
	return cfg.Width, cfg.Height
}
