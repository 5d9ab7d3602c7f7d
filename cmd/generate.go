package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/generator"
	"github.com/tkturners/thumbgen/internal/report"
)

func newGenerateCmd(ctx *commandContext) *cobra.Command {
	var single string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate HTML pages for every catalog record",
		Long: `Validates the catalog and template, then writes one HTML page per record.

A record that fails is reported and the remaining records are still
generated. The command fails when validation reports errors or when no page
was written.`,
		Example: `  # Generate every record
  thumbgen generate

  # Regenerate one record
  thumbgen generate --single promo-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			logger := ctx.log()
			gen := generator.New(cfg, logger, ctx.runID)

			var (
				summary *report.Summary
				err     error
			)
			if single != "" {
				summary, err = gen.GenerateSingle(single)
			} else {
				summary, err = gen.GenerateAll()
			}
			if summary == nil {
				if errors.Is(err, generator.ErrValidationFailed) {
					gen.Validate().Print(cmd.OutOrStdout())
				}
				return err
			}

			summary.Print(cmd.OutOrStdout())
			persistSummary(cmd.Context(), cfg, logger, summary)
			return err
		},
	}

	cmd.Flags().StringVar(&single, "single", "", "Generate only the record with this id")

	return cmd
}
