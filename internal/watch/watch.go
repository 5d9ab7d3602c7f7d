// Package watch re-runs generation when the catalog, template or image
// assets change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tkturners/thumbgen/internal/logging"
)

// DefaultDebounce coalesces bursts of editor writes into one run.
const DefaultDebounce = 300 * time.Millisecond

// Handler is called once per debounced burst with the changed paths.
type Handler func(ctx context.Context, changed []string)

// Watcher watches a fixed set of files and directories.
type Watcher struct {
	fs     *fsnotify.Watcher
	delay  time.Duration
	files  map[string]struct{}
	dirs   []string
	logger *slog.Logger
}

// New watches each file in files and everything directly inside each
// directory in dirs. Files are watched through their parent directory so
// editors that save by rename are still seen. Missing directories are skipped
// with a warning.
func New(files, dirs []string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:     fsw,
		delay:  delay,
		files:  make(map[string]struct{}, len(files)),
		logger: logger.With(logging.FieldComponent, "watch"),
	}

	watched := make(map[string]struct{})
	add := func(dir string) {
		if _, ok := watched[dir]; ok {
			return
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warn("cannot watch directory", logging.FieldPath, dir, "error", err)
			return
		}
		watched[dir] = struct{}{}
	}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		add(filepath.Dir(abs))
	}
	for _, d := range dirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", d, err)
		}
		w.dirs = append(w.dirs, abs)
		add(abs)
	}

	if len(watched) == 0 {
		_ = fsw.Close()
		return nil, errors.New("nothing to watch")
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// relevant reports whether path is a watched file or sits directly in a
// watched directory.
func (w *Watcher) relevant(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if _, ok := w.files[path]; ok {
		return true
	}
	parent := filepath.Dir(path)
	for _, d := range w.dirs {
		if parent == d {
			return true
		}
	}
	return false
}

// Run delivers debounced changes to handle until ctx is done. Handlers run
// on this goroutine, so a burst arriving mid-run is delivered after it ends.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !w.relevant(event.Name) {
				continue
			}
			w.logger.Debug("change detected", logging.FieldPath, event.Name, "op", event.Op.String())
			pending[event.Name] = struct{}{}
			stopTimer()
			timer = time.NewTimer(w.delay)
			timerC = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)
			handle(ctx, changed)
		}
	}
}
