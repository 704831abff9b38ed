package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"chemgps/domain/result"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the result kinds that can be predicted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result.Entries())
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			for _, e := range result.Entries() {
				fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Desc)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the list as JSON")

	return cmd
}
