package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/generator"
	"github.com/tkturners/thumbgen/internal/watch"
)

func newWatchCmd(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate every page when the catalog, template or images change",
		Long: `Generates all pages once, then watches the catalog, the template and the
image and logo directories. Every change triggers a full regeneration.

Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			logger := ctx.log()
			gen := generator.New(cfg, logger, "")

			regenerate := func(runCtx context.Context) {
				summary, err := gen.GenerateAll()
				if err != nil {
					logger.Error("generation failed", "error", err)
				}
				if summary != nil {
					summary.Print(cmd.OutOrStdout())
					persistSummary(runCtx, cfg, logger, summary)
				}
			}

			w, err := watch.New(
				[]string{cfg.Paths.Catalog, cfg.Paths.Template},
				[]string{cfg.Paths.Images, cfg.Paths.Logos},
				debounce,
				logger,
			)
			if err != nil {
				return err
			}
			defer w.Close()

			regenerate(cmd.Context())
			logger.Info("watching for changes")
			return w.Run(cmd.Context(), func(runCtx context.Context, changed []string) {
				logger.Info("change detected", "files", changed)
				regenerate(runCtx)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last change before regenerating")

	return cmd
}
