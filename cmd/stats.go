package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/internal/report"
	"github.com/sells-group/leads-cli/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate lead counts from the relational store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		formID, _ := cmd.Flags().GetString("form-id")
		startRaw, _ := cmd.Flags().GetString("start")
		endRaw, _ := cmd.Flags().GetString("end")

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
			return eris.Wrap(err, "stats")
		}

		if table.Empty() {
			fmt.Fprintln(os.Stderr, "No leads found for the given filters.")
			return nil
		}

		formatStats(os.Stdout, len(table.Rows), report.LeadsPerDay(table), report.LeadsByForm(table))

		if earliest, latest := report.Span(table); earliest != nil && latest != nil {
			fmt.Printf("\nSpan: %s to %s\n",
				earliest.UTC().Format(time.RFC3339),
				latest.UTC().Format(time.RFC3339),
			)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("form-id", "", "filter by form identifier (exact match)")
	statsCmd.Flags().String("start", "", "inclusive start date (YYYY-MM-DD)")
	statsCmd.Flags().String("end", "", "inclusive end date (YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}

// formatStats writes the aggregate buckets to w.
func formatStats(out io.Writer, total int, perDay, byForm []report.Bucket) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total leads:\t%d\n", total)

	if len(perDay) > 0 {
		_, _ = fmt.Fprintln(w, "\nLeads over time:")
		for _, b := range perDay {
			_, _ = fmt.Fprintf(w, "  %s\t%d\n", b.Key, b.Count)
		}
	}
	if len(byForm) > 0 {
		_, _ = fmt.Fprintln(w, "\nLeads by form:")
		for _, b := range byForm {
			_, _ = fmt.Fprintf(w, "  %s\t%d\n", b.Key, b.Count)
		}
	}
	_ = w.Flush()
}
