package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query leads from the relational store",
	Long:  "Runs a filtered read against the leads table, expands the answers column into prefixed flat columns, and renders the result. Identical filter parameters may be served from a short-lived memo.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		formID, _ := cmd.Flags().GetString("form-id")
		startRaw, _ := cmd.Flags().GetString("start")
		endRaw, _ := cmd.Flags().GetString("end")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		start, err := parseDate("--start", startRaw)
		if err != nil {
			return err
		}
		end, err := parseDate("--end", endRaw)
		if err != nil {
			return err
		}
		if err := validateDateRange(start, end); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		table, err := st.QueryLeads(ctx, store.LeadFilter{
			FormID: formID,
			Start:  start,
			End:    end,
		})
		if err != nil {
			return eris.Wrap(err, "query leads")
		}

		if table.Empty() {
			fmt.Fprintln(os.Stderr, "No leads found for the given filters.")
			return nil
		}

		return writeTable(table, format, out, formID)
	},
}

func init() {
	queryCmd.Flags().String("form-id", "", "filter by form identifier (exact match)")
	queryCmd.Flags().String("start", "", "inclusive start date (YYYY-MM-DD)")
	queryCmd.Flags().String("end", "", "inclusive end date (YYYY-MM-DD, pinned to day end)")
	queryCmd.Flags().StringP("out", "o", "", "output path (default derived from form id; '-' for stdout)")
	queryCmd.Flags().String("format", "table", "output format: table, csv, xlsx")
	rootCmd.AddCommand(queryCmd)
}
