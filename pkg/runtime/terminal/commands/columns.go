package commands

import (
	"fmt"

	"github.com/de-tools/variation-atlas/pkg/services/ingest"
	"github.com/spf13/cobra"
)

func NewColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns a performance export must contain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Expected columns (exact, case and accent sensitive):")
			for _, c := range ingest.Columns {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", c)
			}
			return nil
		},
	}
}
