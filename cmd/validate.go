package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/generator"
)

func newValidateCmd(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog, template and asset directories",
		Long: `Runs every catalog, template and asset check without writing output.

Errors block generation; warnings are advisory. The command fails when any
error is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(ctx.config(), ctx.log(), ctx.runID)
			res := gen.Validate()
			res.Print(cmd.OutOrStdout())
			if !res.OK() {
				return errors.New("validation failed")
			}
			return nil
		},
	}
}
