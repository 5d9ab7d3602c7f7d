package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/generator"
)

func newListCmd(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(ctx.config(), ctx.log(), ctx.runID)
			records, err := gen.List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}

			fmt.Fprintf(out, "Available thumbnails (%d):\n", len(records))
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{r.ID, r.Title, r.Badge, r.PrimaryColor})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Badge", "Color"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")

	return cmd
}
