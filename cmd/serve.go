package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/preview"
)

func newServeCmd(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generated output for preview",
		Long: `Starts a local web server over the output tree.

The index page links every catalog record to its generated page and captured
image; /api/thumbnails returns the same list as JSON.`,
		Example: `  # Serve on the configured address
  thumbgen serve

  # Serve on all interfaces
  thumbgen serve --bind 0.0.0.0:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			if bind == "" {
				bind = cfg.Preview.Bind
			}
			return preview.New(cfg, ctx.log()).Run(cmd.Context(), bind)
		},
	}

	cmd.Flags().StringVarP(&bind, "bind", "b", "", "Address to listen on (default from config)")

	return cmd
}
