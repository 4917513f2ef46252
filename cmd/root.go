package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/config"
)

var cfg *config.Config

var flagToken string

var rootCmd = &cobra.Command{
	Use:   "leads-cli",
	Short: "Meta Lead Ads retrieval and export",
	Long:  "Fetches lead records from the Graph API or a relational store, flattens nested answer structures into tabular rows, and renders tables, aggregates, and CSV/XLSX exports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		// Session token from the flag takes precedence; it is never persisted.
		if flagToken != "" {
			cfg.Graph.Token = flagToken
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Graph API access token for this session")
}
