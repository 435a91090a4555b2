// Package main is the entry point for the radreport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrsinham/radreport/internal/config"
)

// version is set at build time via -ldflags
var version = "dev"

// configErr holds a config file read failure until a command runs.
var configErr error

var rootCmd = &cobra.Command{
	Use:   "radreport",
	Short: "Build radiology reports from a catalog of pathologies",
	Long: `radreport composes the observation and impression sections of a
radiology report. Findings are picked from a pathology catalog (a CSV file or
URL) and qualified with side, lobe and size where the pathology requires it.

Without a subcommand the interactive wizard starts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configErr
	},
	RunE: runWizard,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./radreport.yaml or ~/.config/radreport/radreport.yaml)")
	flags.String("catalog", "", "pathology catalog file or http(s) URL")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	_ = viper.BindPFlag(config.KeyCatalogSource, flags.Lookup("catalog"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Setup(viper.GetViper(), cfgFile)
	configErr = config.ReadFile(viper.GetViper())
}

// loadConfig returns the validated configuration of the running command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
