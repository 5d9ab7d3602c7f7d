// Package layout decides where generated documents, copied assets and
// captured images live under the output root.
//
// In per-record mode every record owns <root>/<id>/ with its document, an
// assets/images copy and a screenshot subfolder. In flat mode all records
// share <root> and a single assets/images copy.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tkturners/thumbgen/internal/fileutil"
	"github.com/tkturners/thumbgen/internal/logging"
)

// AssetsSubdir is the assets location relative to an output scope.
var AssetsSubdir = filepath.Join("assets", "images")

// sharedAssetsDir is the top-level folder flat mode copies assets into.
const sharedAssetsDir = "assets"

// HTMLExt is the extension of generated documents.
const HTMLExt = ".html"

// Options configures a Manager.
type Options struct {
	Root                string
	PerRecord           bool
	ScreenshotSubfolder string
}

// Manager creates and resolves output paths.
type Manager struct {
	root      string
	perRecord bool
	shots     string
	logger    *slog.Logger
}

// New builds a Manager. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		root:      opts.Root,
		perRecord: opts.PerRecord,
		shots:     opts.ScreenshotSubfolder,
		logger:    logger.With(logging.FieldComponent, "layout"),
	}
}

// Root returns the output root.
func (m *Manager) Root() string { return m.root }

// PerRecord reports whether records get their own subdirectory.
func (m *Manager) PerRecord() bool { return m.perRecord }

// Dir returns the output scope for id. An empty id, or flat mode, yields the
// root.
func (m *Manager) Dir(id string) string {
	if m.perRecord && id != "" {
		return filepath.Join(m.root, id)
	}
	return m.root
}

// HTMLPath is where the document for id is written.
func (m *Manager) HTMLPath(id string) string {
	return filepath.Join(m.Dir(id), id+HTMLExt)
}

// ScreenshotDir is where captures for id are written.
func (m *Manager) ScreenshotDir(id string) string {
	if m.perRecord && id != "" {
		return filepath.Join(m.root, id, m.shots)
	}
	return m.root
}

// ScreenshotPath is the capture path for id using name as the file stem.
func (m *Manager) ScreenshotPath(id, name, format string) string {
	return filepath.Join(m.ScreenshotDir(id), name+"."+format)
}

// AssetsDir is the assets copy for id's scope.
func (m *Manager) AssetsDir(id string) string {
	return filepath.Join(m.Dir(id), AssetsSubdir)
}

// EnsureOutputDir creates the root and, in per-record mode, the record
// directory with its screenshot subfolder. Existing directories are left
// alone. It returns the record's output scope.
func (m *Manager) EnsureOutputDir(id string) (string, error) {
	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return "", fmt.Errorf("create output root: %w", err)
	}
	if id == "" {
		return m.root, nil
	}
	if err := ValidName(id); err != nil {
		return "", fmt.Errorf("invalid record id: %w", err)
	}
	if !m.perRecord {
		return m.root, nil
	}
	if err := os.MkdirAll(m.ScreenshotDir(id), 0o755); err != nil {
		return "", fmt.Errorf("create record directory: %w", err)
	}
	return m.Dir(id), nil
}

// ValidName reports whether name can be used as a single path element under
// the output root. Record ids and capture file stems must both pass.
func ValidName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q is not a plain file name", name)
	}
	return nil
}

// CopyAssets copies the top-level regular files of srcDir into the assets
// folder of id's scope and returns how many were copied. Problems are logged
// as warnings; a file that fails to copy is skipped and a missing srcDir
// yields 0.
func (m *Manager) CopyAssets(id, srcDir string) int {
	dest := m.AssetsDir(id)
	logger := m.logger
	if id != "" {
		logger = logger.With(logging.FieldRecordID, id)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		logger.Warn("failed to create assets directory", logging.FieldPath, dest, "error", err)
		return 0
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("assets directory not found", logging.FieldPath, srcDir)
		} else {
			logger.Warn("failed to read assets directory", logging.FieldPath, srcDir, "error", err)
		}
		return 0
	}

	copied := 0
	for _, entry := range entries {
		src := filepath.Join(srcDir, entry.Name())
		info, err := os.Stat(src)
		if err != nil {
			logger.Warn("failed to copy asset", "file", entry.Name(), "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if err := fileutil.CopyFile(src, filepath.Join(dest, entry.Name())); err != nil {
			logger.Warn("failed to copy asset", "file", entry.Name(), "error", err)
			continue
		}
		copied++
	}
	logger.Debug("copied assets", "count", copied, logging.FieldPath, dest)
	return copied
}

// Candidates lists the record ids present in the output tree: record
// subdirectories in per-record mode, document stems in flat mode. A missing
// root yields no candidates. In per-record mode a top-level "assets"
// directory is the shared assets folder of a flat run unless it holds
// assets.html.
func (m *Manager) Candidates() ([]string, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if m.perRecord {
			if !entry.IsDir() || strings.HasPrefix(name, ".") {
				continue
			}
			if name == sharedAssetsDir && !m.hasHTML(name) {
				continue
			}
			ids = append(ids, name)
			continue
		}
		if !entry.IsDir() && strings.HasSuffix(name, HTMLExt) {
			ids = append(ids, strings.TrimSuffix(name, HTMLExt))
		}
	}
	return ids, nil
}

func (m *Manager) hasHTML(id string) bool {
	info, err := os.Stat(m.HTMLPath(id))
	return err == nil && info.Mode().IsRegular()
}
