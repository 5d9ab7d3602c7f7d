// Package generator expands every catalog record into an HTML document under
// the output tree.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tkturners/thumbgen/internal/catalog"
	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/expand"
	"github.com/tkturners/thumbgen/internal/fileutil"
	"github.com/tkturners/thumbgen/internal/layout"
	"github.com/tkturners/thumbgen/internal/logging"
	"github.com/tkturners/thumbgen/internal/report"
	"github.com/tkturners/thumbgen/internal/validation"
)

// Operation names used in summaries and reports.
const (
	OperationGenerate       = "generate"
	OperationGenerateSingle = "generate-single"
)

var (
	// ErrValidationFailed indicates the catalog has blocking validation errors.
	ErrValidationFailed = errors.New("validation failed")
	// ErrRecordNotFound indicates the requested id is not in the catalog.
	ErrRecordNotFound = errors.New("thumbnail not found")
	// ErrNothingGenerated indicates no record produced a document.
	ErrNothingGenerated = errors.New("no thumbnails generated")
)

// Generator produces HTML documents for catalog records.
type Generator struct {
	cfg    *config.Config
	layout *layout.Manager
	logger *slog.Logger
	runID  string
}

// New builds a Generator. A nil logger discards output; an empty runID is
// replaced per run.
func New(cfg *config.Config, logger *slog.Logger, runID string) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		cfg: cfg,
		layout: layout.New(layout.Options{
			Root:                cfg.Paths.Output,
			PerRecord:           cfg.Output.PerRecordFolders,
			ScreenshotSubfolder: cfg.Output.ScreenshotSubfolder,
		}, logger),
		logger: logger.With(logging.FieldComponent, "generator"),
		runID:  runID,
	}
}

// Layout exposes the output layout the generator writes into.
func (g *Generator) Layout() *layout.Manager {
	return g.layout
}

// Validate runs the catalog validator against the configured inputs.
func (g *Generator) Validate() validation.Result {
	return validation.Validate(validation.Paths{
		Catalog:  g.cfg.Paths.Catalog,
		Template: g.cfg.Paths.Template,
		Images:   g.cfg.Paths.Images,
		Logos:    g.cfg.Paths.Logos,
	})
}

// GenerateAll validates the catalog and writes a document for every record.
// A record's failure is recorded in the summary and does not stop the batch.
// The error is nil iff at least one record succeeded.
func (g *Generator) GenerateAll() (*report.Summary, error) {
	g.logger.Info("starting generation", logging.FieldPath, g.cfg.Paths.Catalog)

	cat, tmpl, err := g.prepare()
	if err != nil {
		return nil, err
	}

	summary := report.New(OperationGenerate, g.runID, g.layout.Root())
	g.generateRecords(tmpl, cat.DefaultsOrZero(), cat.Thumbnails, summary)
	return g.finish(summary)
}

// GenerateSingle validates the catalog and writes the document for id only.
func (g *Generator) GenerateSingle(id string) (*report.Summary, error) {
	g.logger.Info("starting generation", logging.FieldRecordID, id)

	cat, tmpl, err := g.prepare()
	if err != nil {
		return nil, err
	}

	rec, ok := cat.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrRecordNotFound, id, strings.Join(cat.IDs(), ", "))
	}

	summary := report.New(OperationGenerateSingle, g.runID, g.layout.Root())
	g.generateRecords(tmpl, cat.DefaultsOrZero(), []catalog.Record{rec}, summary)
	return g.finish(summary)
}

// prepare runs validation, loads the inputs once and readies the output root.
// Nothing is written when validation fails.
func (g *Generator) prepare() (*catalog.Catalog, string, error) {
	res := g.Validate()
	res.Log(g.logger)
	if !res.OK() {
		return nil, "", fmt.Errorf("%w: %d error(s)", ErrValidationFailed, len(res.Errors))
	}

	cat, err := catalog.Load(g.cfg.Paths.Catalog)
	if err != nil {
		return nil, "", err
	}
	tmpl, err := expand.LoadTemplate(g.cfg.Paths.Template)
	if err != nil {
		return nil, "", err
	}

	if _, err := g.layout.EnsureOutputDir(""); err != nil {
		return nil, "", err
	}
	if g.cfg.Output.CopyAssets && !g.layout.PerRecord() {
		n := g.layout.CopyAssets("", g.cfg.Paths.Images)
		g.logger.Info("copied asset files", "count", n)
	}
	return cat, tmpl, nil
}

func (g *Generator) finish(summary *report.Summary) (*report.Summary, error) {
	summary.Finish()
	summary.Log(g.logger)
	if !summary.OK() {
		return summary, fmt.Errorf("%w: %d failed", ErrNothingGenerated, summary.Failed)
	}
	return summary, nil
}

// generateRecords folds over records in order, recording one outcome each.
func (g *Generator) generateRecords(tmpl string, defaults catalog.Defaults, records []catalog.Record, summary *report.Summary) {
	for _, rec := range records {
		path, err := report.Guard(func() (string, error) {
			return g.generateOne(tmpl, defaults, rec)
		})
		if err != nil {
			g.logger.Error("failed to generate", logging.FieldRecordID, rec.ID, "error", err)
			summary.Fail(rec.ID, err)
			continue
		}
		logging.Success(g.logger, "generated", logging.FieldRecordID, rec.ID, logging.FieldPath, path)
		summary.Succeed(rec.ID, path)
	}
}

func (g *Generator) generateOne(tmpl string, defaults catalog.Defaults, rec catalog.Record) (string, error) {
	if rec.ID == "" {
		return "", errors.New("thumbnail missing required field: id")
	}

	html, err := expand.Expand(tmpl, rec, defaults)
	if err != nil {
		return "", err
	}

	if _, err := g.layout.EnsureOutputDir(rec.ID); err != nil {
		return "", err
	}
	if g.cfg.Output.CopyAssets && g.layout.PerRecord() {
		g.layout.CopyAssets(rec.ID, g.cfg.Paths.Images)
	}

	path := g.layout.HTMLPath(rec.ID)
	if err := fileutil.WriteAtomic(path, []byte(html)); err != nil {
		return "", fmt.Errorf("write html: %w", err)
	}
	return path, nil
}
