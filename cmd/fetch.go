package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/model"
	"github.com/sells-group/leads-cli/pkg/graph"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <form-id>",
	Short: "Fetch leads for a form from the Graph API",
	Long:  "Follows pagination cursors until the requested limit or exhaustion, flattens each lead's field data, and renders the batch as a table or export file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formID := args[0]

		limit, _ := cmd.Flags().GetInt("limit")
		olderThanRaw, _ := cmd.Flags().GetString("older-than")
		fields, _ := cmd.Flags().GetStringSlice("fields")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		// Input validation happens before any network call.
		olderThan, err := parseEpoch("--older-than", olderThanRaw)
		if err != nil {
			return err
		}

		client, err := initGraph()
		if err != nil {
			return err
		}

		leads, err := client.FetchLeads(cmd.Context(), graph.LeadsRequest{
			FormID:    formID,
			Limit:     limit,
			PageSize:  cfg.Graph.PageSize,
			OlderThan: olderThan,
			Fields:    fields,
		})
		if err != nil {
			return err
		}

		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads found for the given filters.")
			return nil
		}

		rows := make([]model.Row, len(leads))
		for i, l := range leads {
			rows[i] = model.ParseLead(l)
		}

		return writeTable(model.BuildLeadTable(rows), format, out, formID)
	},
}

func init() {
	fetchCmd.Flags().Int("limit", 100, "max rows to fetch (clamped to 3200)")
	fetchCmd.Flags().String("older-than", "", "only leads created before this unix timestamp")
	fetchCmd.Flags().StringSlice("fields", nil, "override the requested field list")
	fetchCmd.Flags().StringP("out", "o", "", "output path (default derived from form id; '-' for stdout)")
	fetchCmd.Flags().String("format", "table", "output format: table, csv, xlsx")
	rootCmd.AddCommand(fetchCmd)
}
