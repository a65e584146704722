package commands

import (
	"log/slog"
	"os"

	"github.com/openlobby/registry/internal/config"
	"github.com/spf13/cobra"
)

var (
	logger *slog.Logger
	cfg    *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "registry",
	Short: "Game server discovery and matchmaking registry",
	Long: `A discovery registry for online game servers.

Game backends publish their identity, capacity and hosted rooms; clients ask
the registry for a suitable live server with a cascading developer/fallback
tier policy, or hand around short fast-join codes instead of URLs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger for all commands
		logger = config.SetupLogger()

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			logger.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringP("log-format", "f", "", "Log format (json, text)")
}
