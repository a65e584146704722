package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage fast-join tokens",
}

var tokensPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired fast-join tokens",
	Long: `Delete fast-join tokens older than their validity window.

The API never deletes tokens; expired rows are merely invisible to lookups.
This command reclaims the storage.`,
	Example: `  registry tokens prune`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		_, fastTokens, cleanup := initializeServices()
		defer cleanup()

		removed, err := fastTokens.Prune(ctx)
		if err != nil {
			logger.Error("Failed to prune tokens", "error", err)
			os.Exit(1)
		}

		fmt.Printf("✓ Pruned %d expired token(s).\n", removed)
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.AddCommand(tokensPruneCmd)
}
