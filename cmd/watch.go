package cmd

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/EO-DataHub/eodhp-user-admin/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print user change events from the Pulsar topic",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		if appCfg.Pulsar.URL == "" {
			log.Fatal().Msg("pulsar.url is not configured")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Initialize event consumer
		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.TopicConsumer,
			appCfg.Pulsar.Subscription, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		err = consumer.Consume(ctx, func(_ context.Context, event events.UserEvent) error {
			return enc.Encode(event)
		})
		if err != nil {
			log.Error().Err(err).Msg("Stopped consuming user events")
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
