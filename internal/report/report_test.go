package report

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tkturners/thumbgen/internal/logging"
)

func TestSummaryCounts(t *testing.T) {
	s := New("generate", "", "/out")
	if s.RunID == "" {
		t.Fatal("expected a generated run id")
	}

	s.Succeed("a", "/out/a/a.html")
	s.Fail("b", errors.New("boom"))
	s.Succeed("c", "/out/c/c.html")
	s.Skip("d", "html not found")
	s.Finish()

	if s.Succeeded != 2 || s.Failed != 1 || s.Skipped != 1 {
		t.Fatalf("counts = %d/%d/%d", s.Succeeded, s.Failed, s.Skipped)
	}
	if !s.OK() {
		t.Error("OK() = false with successes")
	}
	want := []Outcome{{ID: "b", Status: StatusFailed, Error: "boom"}}
	if diff := cmp.Diff(want, s.Failures()); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	if s.Duration() < 0 {
		t.Errorf("negative duration %v", s.Duration())
	}
}

func TestSummaryOKRequiresSuccess(t *testing.T) {
	s := New("capture", "run-1", "/out")
	s.Fail("a", errors.New("x"))
	if s.OK() {
		t.Error("OK() = true without successes")
	}
}

func TestSummaryLog(t *testing.T) {
	logger, rec := logging.NewRecorder()
	s := New("generate", "run-1", "/out")
	s.Succeed("a", "")
	s.Fail("b", errors.New("bad"))
	s.Log(logger)

	if n := rec.Count(slog.LevelError); n != 1 {
		t.Errorf("error entries = %d, want 1", n)
	}
	if n := rec.Count(logging.LevelSuccess); n != 1 {
		t.Errorf("success entries = %d, want 1", n)
	}
	entries := rec.Entries()
	if entries[0].Attrs[logging.FieldRecordID] != "b" {
		t.Errorf("failure entry attrs = %v", entries[0].Attrs)
	}
}

func TestSummaryPrint(t *testing.T) {
	s := New("generate", "run-1", "/out")
	s.Succeed("a", "")
	s.Fail("b", errors.New("template exploded"))

	var buf bytes.Buffer
	s.Print(&buf)
	out := buf.String()
	for _, want := range []string{"Succeeded:   1", "Failed:      1", "b: template exploded", "/out"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSaveYAML(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	s := New("capture", "run-42", "/out")
	s.Succeed("promo-1", "/out/promo-1/screenshots/promo-1.png")
	s.Fail("promo-2", errors.New("navigation timeout"))
	s.Finish()

	path, err := SaveYAML(dir, s)
	if err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "capture-") || filepath.Ext(path) != ".yaml" {
		t.Errorf("unexpected report name %q", path)
	}

	loaded, err := LoadYAML(path)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if loaded.RunID != "run-42" || loaded.Succeeded != 1 || loaded.Failed != 1 {
		t.Errorf("loaded summary = %+v", loaded)
	}
	if diff := cmp.Diff(s.Outcomes, loaded.Outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveYAMLSameSecondRunsKeepSeparateReports(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	first := New("generate", "3f2a9c1e-aaaa-bbbb-cccc-000000000001", "/out")
	first.Started, first.Finished = started, started.Add(200*time.Millisecond)
	second := New("generate", "7b41d0e2-aaaa-bbbb-cccc-000000000002", "/out")
	second.Started, second.Finished = started, started.Add(700*time.Millisecond)
	repeat := New("generate", "7b41d0e2-aaaa-bbbb-cccc-000000000002", "/out")
	repeat.Started, repeat.Finished = second.Started, second.Finished

	var paths []string
	for _, s := range []*Summary{first, second, repeat} {
		path, err := SaveYAML(dir, s)
		if err != nil {
			t.Fatalf("SaveYAML: %v", err)
		}
		paths = append(paths, filepath.Base(path))
	}

	want := []string{
		"generate-2026-10-16_09-30-00.200-3f2a9c1e.yaml",
		"generate-2026-10-16_09-30-00.700-7b41d0e2.yaml",
		"generate-2026-10-16_09-30-00.700-7b41d0e2-2.yaml",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("report names (-want +got):\n%s", diff)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d report files, want 3", len(entries))
	}
}

func TestGuard(t *testing.T) {
	path, err := Guard(func() (string, error) { return "/ok", nil })
	if err != nil || path != "/ok" {
		t.Fatalf("Guard() = %q, %v", path, err)
	}

	_, err = Guard(func() (string, error) { return "", errors.New("plain") })
	if err == nil || err.Error() != "plain" {
		t.Fatalf("Guard() error = %v", err)
	}

	path, err = Guard(func() (string, error) {
		var m map[string]int
		m["x"] = 1
		return "/never", nil
	})
	if err == nil || !strings.HasPrefix(err.Error(), "panic:") || path != "" {
		t.Fatalf("Guard() = %q, %v; want recovered panic", path, err)
	}
}
