package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/capture"
	"github.com/tkturners/thumbgen/internal/generator"
	"github.com/tkturners/thumbgen/internal/render"
	"github.com/tkturners/thumbgen/internal/report"
)

func newCaptureCmd(ctx *commandContext) *cobra.Command {
	var (
		all     bool
		backend string
	)

	cmd := &cobra.Command{
		Use:   "capture [id]",
		Short: "Regenerate pages and capture them as images",
		Long: `Regenerates the HTML pages, then opens each one in a headless browser and
saves an image of the thumbnail region (or the whole viewport when the region
is not found).

One browser is started per run and always shut down, including when the run
is interrupted.`,
		Example: `  # Capture every generated record
  thumbgen capture --all

  # Capture one record with the rod backend
  thumbgen capture promo-1 --backend rod`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass a record id or --all")
			}

			cfg := ctx.config()
			logger := ctx.log()
			if backend == "" {
				backend = cfg.Capture.Backend
			}

			engine, err := capture.NewBackend(backend, render.OptionsFromConfig(cfg), logger)
			if err != nil {
				return err
			}
			gen := generator.New(cfg, logger, ctx.runID)
			orch := capture.New(capture.Options{
				CatalogPath: cfg.Paths.Catalog,
				Format:      cfg.Capture.Format,
				RunID:       ctx.runID,
			}, gen, gen.Layout(), engine, logger)

			var summary *report.Summary
			if all {
				summary, err = orch.CaptureAll(cmd.Context())
			} else {
				summary, err = orch.CaptureSingle(cmd.Context(), args[0])
			}
			if summary != nil {
				summary.Print(cmd.OutOrStdout())
				persistSummary(cmd.Context(), cfg, logger, summary)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Capture every generated record")
	cmd.Flags().StringVar(&backend, "backend", "", "Render backend: chromedp or rod (default from config)")

	return cmd
}
