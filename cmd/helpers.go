package cmd

import (
	"context"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/logging"
	"github.com/tkturners/thumbgen/internal/report"
	"github.com/tkturners/thumbgen/internal/storage"
)

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// persistSummary writes the YAML run report and the history row. Failures
// here are warnings and never change the outcome of the run.
func persistSummary(ctx context.Context, cfg *config.Config, logger *slog.Logger, summary *report.Summary) {
	if summary == nil {
		return
	}
	if path, err := report.SaveYAML(cfg.Paths.Reports, summary); err != nil {
		logger.Warn("failed to write run report", "error", err)
	} else {
		logger.Info("run report written", logging.FieldPath, path)
	}

	if !cfg.History.Enabled {
		return
	}
	store, err := storage.Open(ctx, cfg.History.Path)
	if err != nil {
		logger.Warn("failed to open run history", "error", err)
		return
	}
	defer store.Close()
	if err := store.Record(ctx, summary); err != nil {
		logger.Warn("failed to record run history", "error", err)
	}
}
