// Package capture renders generated documents to images through a render
// backend. Documents are always regenerated first so captures never reflect
// stale HTML.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tkturners/thumbgen/internal/catalog"
	"github.com/tkturners/thumbgen/internal/layout"
	"github.com/tkturners/thumbgen/internal/logging"
	"github.com/tkturners/thumbgen/internal/render"
	"github.com/tkturners/thumbgen/internal/report"
)

// Operation names used in summaries and reports.
const (
	OperationCapture       = "capture"
	OperationCaptureSingle = "capture-single"
)

var (
	// ErrGenerationFailed indicates HTML regeneration failed, so nothing was captured.
	ErrGenerationFailed = errors.New("html generation failed")
	// ErrNoCandidates indicates the output tree holds nothing to capture.
	ErrNoCandidates = errors.New("no generated html found to capture")
	// ErrNothingCaptured indicates every capture attempt failed or was skipped.
	ErrNothingCaptured = errors.New("no screenshots captured")
)

// Generator regenerates documents before a capture run.
type Generator interface {
	GenerateAll() (*report.Summary, error)
	GenerateSingle(id string) (*report.Summary, error)
}

// Options configures an Orchestrator.
type Options struct {
	CatalogPath string
	Format      string
	RunID       string
}

// Orchestrator drives one backend over the generated output tree.
type Orchestrator struct {
	opts    Options
	gen     Generator
	layout  *layout.Manager
	backend render.Backend
	logger  *slog.Logger
}

// New builds an Orchestrator. layout must describe the tree gen writes.
func New(opts Options, gen Generator, lay *layout.Manager, backend render.Backend, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		opts:    opts,
		gen:     gen,
		layout:  lay,
		backend: backend,
		logger:  logger.With(logging.FieldComponent, "capture", "backend", backend.Name()),
	}
}

// CaptureAll regenerates every document, then captures each record found in
// the output tree. A record's failure is recorded and the loop continues.
// The engine is started once and always released.
func (o *Orchestrator) CaptureAll(ctx context.Context) (*report.Summary, error) {
	if _, err := o.gen.GenerateAll(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	ids, err := o.layout.Candidates()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCandidates, o.layout.Root())
	}

	return o.run(ctx, OperationCapture, ids)
}

// CaptureSingle regenerates and captures one record.
func (o *Orchestrator) CaptureSingle(ctx context.Context, id string) (*report.Summary, error) {
	if _, err := o.gen.GenerateSingle(id); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if _, err := os.Stat(o.layout.HTMLPath(id)); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoCandidates, o.layout.HTMLPath(id))
	}
	return o.run(ctx, OperationCaptureSingle, []string{id})
}

func (o *Orchestrator) run(ctx context.Context, operation string, ids []string) (*report.Summary, error) {
	names := o.outputNames()

	defer func() {
		if cerr := o.backend.Close(); cerr != nil {
			o.logger.Warn("failed to close render backend", "error", cerr)
		}
	}()
	if err := o.backend.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", o.backend.Name(), err)
	}

	o.logger.Info("capturing screenshots", "count", len(ids))
	summary := report.New(operation, o.opts.RunID, o.layout.Root())
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			summary.Finish()
			return summary, fmt.Errorf("capture interrupted: %w", err)
		}
		o.captureOne(ctx, id, names, summary)
	}
	summary.Finish()
	summary.Log(o.logger)

	if !summary.OK() {
		return summary, fmt.Errorf("%w: %d failed, %d skipped", ErrNothingCaptured, summary.Failed, summary.Skipped)
	}
	return summary, nil
}

func (o *Orchestrator) captureOne(ctx context.Context, id string, names map[string]string, summary *report.Summary) {
	logger := o.logger.With(logging.FieldRecordID, id)

	htmlPath := o.layout.HTMLPath(id)
	if _, err := os.Stat(htmlPath); err != nil {
		logger.Warn("html not found, skipping", logging.FieldPath, htmlPath)
		summary.Skip(id, "html not found: "+htmlPath)
		return
	}

	name := id
	if n, ok := names[id]; ok {
		name = n
	}
	if err := layout.ValidName(name); err != nil {
		err = fmt.Errorf("capture file name: %w", err)
		logger.Error("failed to capture", "error", err)
		summary.Fail(id, err)
		return
	}
	outputPath := o.layout.ScreenshotPath(id, name, o.opts.Format)

	path, err := report.Guard(func() (string, error) {
		return o.backend.CaptureScreenshot(ctx, id, htmlPath, outputPath)
	})
	if err != nil {
		logger.Error("failed to capture", "error", err)
		summary.Fail(id, err)
		return
	}
	logging.Success(logger, "captured", logging.FieldPath, path)
	summary.Succeed(id, path)
}

// outputNames maps record ids to their capture file stems. The catalog was
// just validated by regeneration; if it cannot be read now the ids are used
// as-is.
func (o *Orchestrator) outputNames() map[string]string {
	names := make(map[string]string)
	cat, err := catalog.Load(o.opts.CatalogPath)
	if err != nil {
		o.logger.Warn("could not read catalog for filename overrides", "error", err)
		return names
	}
	for _, rec := range cat.Thumbnails {
		if rec.ID != "" {
			names[rec.ID] = rec.OutputName()
		}
	}
	return names
}
