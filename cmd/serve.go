package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/api/handlers"
	"github.com/EO-DataHub/eodhp-user-admin/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	host string
	port int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a mock user API server backed by seeded in-memory users",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		userDB := db.NewUserDB(&log.Logger)
		userDB.Seed(db.SeedOptions{
			Users:  appCfg.Server.SeedUsers,
			Groups: appCfg.Server.SeedGroups,
			Seed:   appCfg.Server.Seed,
		})

		// Create routes
		r := handlers.NewRouter(userDB, appCfg.API.UsersPath)

		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("could not shut down server")
			}
		}()

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("could not start server")
		}
		log.Info().Msg("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 3001, "port to run the server on")
}
