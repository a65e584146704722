package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/openlobby/registry/internal/api/routes"
	"github.com/openlobby/registry/internal/auth"
	"github.com/openlobby/registry/internal/database"
	"github.com/openlobby/registry/internal/service"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [port]",
	Short: "Start the registry API server",
	Long: `Start the REST API server for the game server registry.

Swagger documentation is served at /swagger/. If no port is specified, the
PORT environment variable is used, defaulting to 8080.`,
	Example: `  # Start on default port (8080 or PORT)
  registry serve

  # Start on specific port
  registry serve 9000`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Determine port
		port := cfg.Port
		if len(args) > 0 {
			parsedPort, err := strconv.Atoi(args[0])
			if err != nil {
				logger.Error("Invalid port number", "port", args[0], "error", err)
				os.Exit(1)
			}
			port = parsedPort
		}

		logger.Info("Starting game server registry",
			"host", cfg.Host,
			"port", port,
			"database_path", cfg.DatabasePath,
			"token_file", cfg.TokenFile,
		)

		// Load the publish allow-list once; it stays immutable afterwards.
		allowlist, err := auth.LoadAllowlist(cfg.TokenFile)
		if err != nil {
			logger.Error("Failed to load publish token allow-list", "error", err)
			os.Exit(1)
		}
		logger.Info("Publish allow-list loaded", "servers", allowlist.Len())

		// Initialize database
		db, err := database.New(cfg.DatabasePath, logger)
		if err != nil {
			logger.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		// Initialize repositories
		serverRepo := database.NewServerRepository(db)
		tokenRepo := database.NewFastTokenRepository(db)

		// Initialize services
		events := service.NewBroadcaster()
		registryService := service.NewRegistryService(serverRepo, events, logger)
		matchmaker := service.NewMatchmakingService(serverRepo, logger)
		fastTokens := service.NewFastTokenService(serverRepo, tokenRepo, logger)

		// Setup router
		router := routes.NewRouter(routes.Services{
			Registry:   registryService,
			Matchmaker: matchmaker,
			FastTokens: fastTokens,
			Events:     events,
			Allowlist:  allowlist,
		}, routes.Options{
			RateLimit:  cfg.RateLimit,
			RateWindow: cfg.RateWindow,
		}, logger)

		// Create HTTP server
		srv := &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Channel to listen for errors coming from the listener
		serverErrors := make(chan error, 1)

		// Start the server
		go func() {
			logger.Info("API server listening", "address", srv.Addr)
			logger.Info("Swagger UI available", "url", fmt.Sprintf("http://localhost:%d/swagger/", port))
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt signal to terminate server gracefully
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Block until we receive a signal or error
		select {
		case err := <-serverErrors:
			logger.Error("Error starting server", "error", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("Received shutdown signal, starting graceful shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			// Attempt graceful shutdown
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Error during shutdown", "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Could not stop server gracefully", "error", err)
					os.Exit(1)
				}
			}

			logger.Info("Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
