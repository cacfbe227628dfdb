package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"caguard/internal/guardian/models"
	"caguard/internal/guardian/zklogin"
)

var (
	nonceTimestamp int64
	nonceManager   string
)

func init() {
	rootCmd.AddCommand(nonceCmd)
	nonceCmd.Flags().Int64Var(&nonceTimestamp, "timestamp", 0, "Unix seconds the manager is added at (required)")
	nonceCmd.Flags().StringVar(&nonceManager, "manager", "", "Base58 address of the manager being added (required)")
	_ = nonceCmd.MarkFlagRequired("timestamp")
	_ = nonceCmd.MarkFlagRequired("manager")
}

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "Derive the zk login nonce a guardian must bind into its OIDC token",
	RunE:  runNonce,
}

func runNonce(cmd *cobra.Command, _ []string) error {
	if nonceTimestamp <= 0 {
		return fmt.Errorf("--timestamp must be positive unix seconds")
	}
	manager, err := models.ParseAddress(nonceManager)
	if err != nil {
		return fmt.Errorf("--manager: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), zklogin.ComputeNonce(nonceTimestamp, manager))
	return nil
}
