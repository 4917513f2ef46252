package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leads-cli/pkg/graph"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Resolve the identity behind the access token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := initGraph()
		if err != nil {
			return err
		}

		user, err := client.Me(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "whoami")
		}

		fmt.Printf("%s (%s)\n", user.Name, user.ID)
		return nil
	},
}

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "List pages the token can act for",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := initGraph()
		if err != nil {
			return err
		}

		pages, err := client.ListPages(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list pages")
		}

		if len(pages) == 0 {
			fmt.Fprintln(os.Stderr, "No pages found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME")
		for _, p := range pages {
			_, _ = fmt.Fprintf(w, "%s\t%s\n", p.ID, p.Name)
		}
		return w.Flush()
	},
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "List lead-gen forms owned by a page",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pageID, _ := cmd.Flags().GetString("page")
		if pageID == "" {
			return &ValidationError{Field: "--page", Reason: "page id is required"}
		}

		client, err := initGraph()
		if err != nil {
			return err
		}

		forms, err := client.ListForms(cmd.Context(), pageID)
		if err != nil {
			return eris.Wrap(err, fmt.Sprintf("list forms for page %s", pageID))
		}

		if len(forms) == 0 {
			fmt.Fprintln(os.Stderr, "No forms found.")
			return nil
		}

		formatForms(os.Stdout, forms)
		return nil
	},
}

func init() {
	formsCmd.Flags().String("page", "", "page id to list forms for")
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(pagesCmd)
	rootCmd.AddCommand(formsCmd)
}

// formatForms writes a tabular form listing to w.
func formatForms(out io.Writer, forms []graph.Form) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME")
	for _, f := range forms {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", f.ID, f.Name)
	}
	_ = w.Flush()
}
