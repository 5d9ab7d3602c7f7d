package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const skipConfigAnnotation = "skipConfigLoad"

func NewRootCmd() *cobra.Command {
	var (
		configFlag string
		levelFlag  string
	)
	ctx := newCommandContext(&configFlag, &levelFlag)

	cmd := &cobra.Command{
		Use:   "thumbgen",
		Short: "Generate thumbnail HTML pages from a catalog and capture them as images",
		Long: `Thumbgen turns a JSON catalog of thumbnail records into one HTML page per
record by filling a shared template, then captures each page with a headless
browser.

Run "thumbgen validate" to check the catalog and template, "thumbgen generate"
to write pages, and "thumbgen capture --all" to produce images.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			if shouldSkipConfig(cmd) {
				return nil
			}
			return ctx.ensureConfig()
		},
	}

	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default ./thumbgen.toml)")
	cmd.PersistentFlags().StringVar(&levelFlag, "log-level", "", "Override the log level (error, warn, info, debug)")

	cmd.AddCommand(
		newGenerateCmd(ctx),
		newListCmd(ctx),
		newValidateCmd(ctx),
		newCaptureCmd(ctx),
		newWatchCmd(ctx),
		newServeCmd(ctx),
		newHistoryCmd(ctx),
		newConfigCmd(),
	)

	return cmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}
