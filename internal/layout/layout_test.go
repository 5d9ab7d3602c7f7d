package layout

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tkturners/thumbgen/internal/logging"
)

func TestEnsureOutputDirPerRecordIsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "output")
	m := New(Options{Root: root, PerRecord: true, ScreenshotSubfolder: "screenshots"}, nil)

	for i := 0; i < 2; i++ {
		dir, err := m.EnsureOutputDir("promo-1")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if dir != filepath.Join(root, "promo-1") {
			t.Fatalf("dir = %q", dir)
		}
	}

	if info, err := os.Stat(filepath.Join(root, "promo-1", "screenshots")); err != nil || !info.IsDir() {
		t.Fatalf("screenshot subfolder missing: %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one record directory, got %d", len(entries))
	}
}

func TestEnsureOutputDirFlat(t *testing.T) {
	root := filepath.Join(t.TempDir(), "output")
	m := New(Options{Root: root, ScreenshotSubfolder: "screenshots"}, nil)

	dir, err := m.EnsureOutputDir("promo-1")
	if err != nil {
		t.Fatal(err)
	}
	if dir != root {
		t.Fatalf("flat mode dir = %q, want root", dir)
	}
	if _, err := os.Stat(filepath.Join(root, "promo-1")); !os.IsNotExist(err) {
		t.Fatalf("flat mode must not create record directories, stat err = %v", err)
	}
}

func TestEnsureOutputDirRejectsTraversal(t *testing.T) {
	for _, perRecord := range []bool{true, false} {
		m := New(Options{Root: t.TempDir(), PerRecord: perRecord, ScreenshotSubfolder: "screenshots"}, nil)
		for _, id := range []string{"..", "a/b", `a\b`} {
			if _, err := m.EnsureOutputDir(id); err == nil {
				t.Errorf("perRecord=%v: EnsureOutputDir(%q) succeeded", perRecord, id)
			}
		}
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"promo-1", true},
		{"shopify-gig.v2", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../../escaped", false},
		{"sub/name", false},
		{`sub\name`, false},
	}
	for _, tt := range tests {
		err := ValidName(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("ValidName(%q) error = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestPaths(t *testing.T) {
	perRecord := New(Options{Root: "/out", PerRecord: true, ScreenshotSubfolder: "shots"}, nil)
	flat := New(Options{Root: "/out", ScreenshotSubfolder: "shots"}, nil)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"per-record html", perRecord.HTMLPath("p1"), "/out/p1/p1.html"},
		{"per-record shot", perRecord.ScreenshotPath("p1", "custom", "png"), "/out/p1/shots/custom.png"},
		{"per-record assets", perRecord.AssetsDir("p1"), "/out/p1/assets/images"},
		{"global assets", perRecord.AssetsDir(""), "/out/assets/images"},
		{"flat html", flat.HTMLPath("p1"), "/out/p1.html"},
		{"flat shot", flat.ScreenshotPath("p1", "p1", "jpeg"), "/out/p1.jpeg"},
		{"flat assets", flat.AssetsDir("p1"), "/out/assets/images"},
	}
	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestCopyAssets(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"a.png", "b.jpg", "c.svg"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "deep.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	m := New(Options{Root: root, PerRecord: true, ScreenshotSubfolder: "screenshots"}, nil)

	if got := m.CopyAssets("promo-1", src); got != 3 {
		t.Fatalf("CopyAssets() = %d, want 3", got)
	}

	dest := filepath.Join(root, "promo-1", "assets", "images")
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"a.png", "b.jpg", "c.svg"}, names); diff != "" {
		t.Errorf("copied files mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(filepath.Join(dest, "b.jpg"))
	if err != nil || string(data) != "b.jpg" {
		t.Errorf("copied content = %q, %v", data, err)
	}
}

func TestCopyAssetsMissingSourceWarns(t *testing.T) {
	logger, rec := logging.NewRecorder()
	m := New(Options{Root: t.TempDir(), PerRecord: true, ScreenshotSubfolder: "screenshots"}, logger)

	got := m.CopyAssets("promo-1", filepath.Join(t.TempDir(), "missing"))
	if got != 0 {
		t.Fatalf("CopyAssets() = %d, want 0", got)
	}
	if n := rec.Count(slog.LevelWarn); n != 1 {
		t.Fatalf("expected one warning, got %d", n)
	}
	entry := rec.Entries()[0]
	if entry.Attrs[logging.FieldRecordID] != "promo-1" {
		t.Errorf("warning attrs = %v", entry.Attrs)
	}
}

func TestCopyAssetsSkipsFailedFile(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"a.png", "b.png"} {
		if err := os.WriteFile(filepath.Join(src, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	root := t.TempDir()
	m := New(Options{Root: root, ScreenshotSubfolder: "screenshots"}, nil)

	// A directory squatting on the destination name makes that single copy fail.
	if err := os.MkdirAll(filepath.Join(root, "assets", "images", "a.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := m.CopyAssets("", src); got != 1 {
		t.Fatalf("CopyAssets() = %d, want 1", got)
	}
}

func TestCandidates(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"promo-2", "promo-1", ".hidden"} {
		if err := os.Mkdir(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"flat-a.html", "flat-b.html", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(root, f), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	perRecord := New(Options{Root: root, PerRecord: true, ScreenshotSubfolder: "screenshots"}, nil)
	got, err := perRecord.Candidates()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"promo-1", "promo-2"}, got); diff != "" {
		t.Errorf("per-record candidates (-want +got):\n%s", diff)
	}

	flat := New(Options{Root: root, ScreenshotSubfolder: "screenshots"}, nil)
	got, err = flat.Candidates()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"flat-a", "flat-b"}, got); diff != "" {
		t.Errorf("flat candidates (-want +got):\n%s", diff)
	}

	missing := New(Options{Root: filepath.Join(root, "nope")}, nil)
	got, err = missing.Candidates()
	if err != nil || len(got) != 0 {
		t.Errorf("missing root: got %v, %v", got, err)
	}
}

func TestCandidatesPerRecordAssetsID(t *testing.T) {
	root := t.TempDir()
	m := New(Options{Root: root, PerRecord: true, ScreenshotSubfolder: "screenshots"}, nil)

	// A shared assets folder left by a flat run is not a record.
	if err := os.MkdirAll(filepath.Join(root, "assets", "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "promo-2"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := m.Candidates()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"promo-2"}, got); diff != "" {
		t.Errorf("candidates without assets.html (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(m.HTMLPath("assets"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = m.Candidates()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"assets", "promo-2"}, got); diff != "" {
		t.Errorf("candidates with a record named assets (-want +got):\n%s", diff)
	}
}
