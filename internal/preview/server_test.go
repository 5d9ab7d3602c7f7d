package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/generator"
)

func newTestServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Catalog = filepath.Join(root, "thumbnails.json")
	cfg.Paths.Output = filepath.Join(root, "output")

	doc := `{"thumbnails": [
	  {"id": "promo-1", "title": {"line1": "A", "line2": "B", "line3": "C"}, "badge": {"text": "New"}, "filename": "hero"},
	  {"id": "promo-2", "title": {"line1": "D", "line2": "E", "line3": "F"}, "badge": {"text": "Old"}}
	]}`
	write(t, cfg.Paths.Catalog, doc)
	write(t, filepath.Join(cfg.Paths.Output, "promo-1", "promo-1.html"), "<html>promo one</html>")
	write(t, filepath.Join(cfg.Paths.Output, "promo-1", "screenshots", "hero.png"), "png")

	return New(&cfg, nil), &cfg
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/healthcheck")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("healthcheck = %d %q", rec.Code, rec.Body.String())
	}
}

func TestThumbnailsAPI(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/api/thumbnails")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got []Thumbnail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Thumbnail{
		{
			RecordSummary: generator.RecordSummary{ID: "promo-1", Title: "A B C", Badge: "New", PrimaryColor: generator.DefaultColorLabel},
			HTML:          "/output/promo-1/promo-1.html",
			Screenshot:    "/output/promo-1/screenshots/hero.png",
		},
		{
			RecordSummary: generator.RecordSummary{ID: "promo-2", Title: "D E F", Badge: "Old", PrimaryColor: generator.DefaultColorLabel},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("thumbnails mismatch (-want +got):\n%s", diff)
	}
}

func TestThumbnailsAPIMissingCatalog(t *testing.T) {
	s, cfg := newTestServer(t)
	if err := os.Remove(cfg.Paths.Catalog); err != nil {
		t.Fatal(err)
	}
	if rec := get(t, s, "/api/thumbnails"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestServesOutputTree(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(t, s, "/output/promo-1/promo-1.html")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "promo one") {
		t.Fatalf("output file = %d %q", rec.Code, rec.Body.String())
	}
}

func TestIndexShowsTitlesAsPlainText(t *testing.T) {
	s, cfg := newTestServer(t)
	write(t, cfg.Paths.Catalog, `{"thumbnails": [{"id": "x", "title": {"line1": "<b>Bold</b> & co", "line2": "y", "line3": "z"}}]}`)

	rec := get(t, s, "/")
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(body, "<b>") || !strings.Contains(body, "Bold &amp; co y z") {
		t.Errorf("index did not reduce titles to plain text:\n%s", body)
	}
}
