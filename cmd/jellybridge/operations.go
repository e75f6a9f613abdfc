package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/jonwraymond/jellybridge/bridge"
	"github.com/spf13/cobra"
)

func newOperationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the available operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, op := range bridge.Operations() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", operationUsage(op), op.Policy, op.Description)
			}
			return w.Flush()
		},
	}
}
