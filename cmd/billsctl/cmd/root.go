// Package cmd provides the billsctl commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"billed/internal/cli"
	"billed/internal/config"
	"billed/internal/log"
)

var (
	envFile string
	debug   bool

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "billsctl",
	Short: "Inspect and submit employee bills",
	Long: `billsctl reads bills from the configured backend the way the bills
page shows them, and submits new bills to the ingest queue.

Example:
  billsctl list --email a@a
  billsctl publish --file bill.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := cli.LoadEnvFiles(envFile); err != nil {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
		} else {
			cli.LoadEnvFile()
		}

		c, err := cli.LoadAndValidateConfig()
		if err != nil {
			return err
		}
		level := c.LogLevel
		if debug {
			level = "debug"
		}
		cfg = c
		logger = cli.SetupLogger(os.Stderr, level, "billsctl")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(publishCmd)
}
