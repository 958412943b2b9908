package main

import (
	"github.com/spf13/cobra"
)

var configFile string

// rootCmd serves the web app when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Wine quality prediction service",
	Long: `Wine quality prediction service.

Trains an ElasticNet regressor on the red wine quality dataset and serves
predictions over HTTP.

Examples:
  server
  server --config service.yaml
  server train --alpha 0.5 --l1-ratio 0.3
  server evaluate`,
	SilenceUsage: true,
	RunE:         runServer,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: environment and .env only)")
}
