// Package cli implements the caguard command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "caguard",
	Short:         "Guardian approval verification for CA holders",
	Long:          "Verifies guardian approvals (verifier-signed documents or zk login proofs) and evaluates holder judgement strategies.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CAGUARD_CONFIG"), "Path to YAML config (env: CAGUARD_CONFIG)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
