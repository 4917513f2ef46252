package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// The session token is never echoed back.
		redacted := *cfg
		if redacted.Graph.Token != "" {
			redacted.Graph.Token = "[redacted]"
		}

		buf, err := yaml.Marshal(redacted)
		if err != nil {
			return eris.Wrap(err, "config show: marshal")
		}
		fmt.Print(string(buf))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
