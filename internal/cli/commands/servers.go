package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/openlobby/registry/internal/database"
	"github.com/openlobby/registry/internal/models"
	"github.com/openlobby/registry/internal/service"
	"github.com/spf13/cobra"
)

// Helper function to initialize services for inspection commands
func initializeServices() (*service.RegistryService, *service.FastTokenService, func()) {
	db, err := database.New(cfg.DatabasePath, logger)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	serverRepo := database.NewServerRepository(db)
	tokenRepo := database.NewFastTokenRepository(db)

	registryService := service.NewRegistryService(serverRepo, nil, logger)
	fastTokens := service.NewFastTokenService(serverRepo, tokenRepo, logger)

	cleanup := func() {
		db.Close()
	}

	return registryService, fastTokens, cleanup
}

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "Inspect registered game servers",
	Long:  `List registered game servers and show their published state.`,
}

var serversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered servers",
	Long:  `List every registered server, including developer and fallback tiers.`,
	Example: `  registry servers list
  registry servers list --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		outputFormat, _ := cmd.Flags().GetString("output")

		registryService, _, cleanup := initializeServices()
		defer cleanup()

		servers, err := registryService.List(ctx, true, true, false)
		if err != nil {
			logger.Error("Failed to list servers", "error", err)
			os.Exit(1)
		}

		if outputFormat == "json" {
			data, _ := json.MarshalIndent(servers, "", "  ")
			fmt.Println(string(data))
			return
		}

		if len(servers) == 0 {
			fmt.Println("No servers registered.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDEV\tFALLBACK\tFULL\tMAINT\tGAMES\tLAST SEEN (s)")
		for _, server := range servers {
			fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%t\t%t\t%d\t%.1f\n",
				server.ID[:8]+"...",
				server.Info.Name,
				server.Info.Developer,
				server.Info.Fallback,
				server.Info.Full,
				server.Info.Maintenance,
				len(server.Info.Games),
				server.LastSeenSec,
			)
		}
		w.Flush()
	},
}

var serversInfoCmd = &cobra.Command{
	Use:   "info <server-id>",
	Short: "Show a server's published state",
	Long:  `Display the full published state of a single registered server.`,
	Example: `  registry servers info abc123...
  registry servers info abc123... --output json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		outputFormat, _ := cmd.Flags().GetString("output")

		id, err := models.ParseID(args[0])
		if err != nil {
			logger.Error("Invalid server id", "id", args[0], "error", err)
			os.Exit(1)
		}

		registryService, _, cleanup := initializeServices()
		defer cleanup()

		server, err := registryService.Get(ctx, id)
		if err != nil {
			logger.Error("Failed to get server info", "error", err)
			os.Exit(1)
		}

		if outputFormat == "json" {
			data, _ := json.MarshalIndent(server, "", "  ")
			fmt.Println(string(data))
			return
		}

		fmt.Printf("\nServer Information:\n")
		fmt.Printf("==================\n\n")
		fmt.Printf("ID:           %s\n", server.ID)
		fmt.Printf("Name:         %s\n", server.Info.Name)
		fmt.Printf("API URI:      %s\n", server.Info.URI)
		fmt.Printf("Developer:    %t\n", server.Info.Developer)
		fmt.Printf("Fallback:     %t\n", server.Info.Fallback)
		fmt.Printf("Full:         %t\n", server.Info.Full)
		fmt.Printf("Maintenance:  %t\n", server.Info.Maintenance)
		if server.Info.MaxClients != nil {
			fmt.Printf("Max Clients:  %d\n", *server.Info.MaxClients)
		}
		fmt.Printf("Last Seen:    %s (%.1fs ago)\n", server.LastSeen, server.LastSeenSec)
		fmt.Printf("Games:\n")
		for _, game := range server.Info.Games {
			fmt.Printf("  - %s (%s), rooms %d, clients %d\n", game.Name, game.URI, game.Rooms, game.Clients)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)

	serversCmd.AddCommand(serversListCmd)
	serversListCmd.Flags().StringP("output", "o", "table", "Output format (table, json)")

	serversCmd.AddCommand(serversInfoCmd)
	serversInfoCmd.Flags().StringP("output", "o", "table", "Output format (table, json)")
}
