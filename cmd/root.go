/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/api/services"
	"github.com/EO-DataHub/eodhp-user-admin/db"
	"github.com/EO-DataHub/eodhp-user-admin/internal/appconfig"
	"github.com/EO-DataHub/eodhp-user-admin/internal/events"
	"github.com/EO-DataHub/eodhp-user-admin/internal/view"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	appCfg     *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:           "user-admin",
	Short:         "User Admin",
	Long:          `User Admin is a CLI tool for listing, filtering and managing the users of a remote user API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the YAML config file")
}

// commonSetUp sets up logging and loads the config.
func commonSetUp() {
	setLogging(logLevel)

	cfg, err := appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	appCfg = cfg
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// newUserAPI returns the HTTP client, or a fixed-latency mock serving
// seeded users when api.mock is set.
func newUserAPI(cfg *appconfig.Config) services.UserAPI {
	if !cfg.API.Mock {
		log.Debug().Str("url", cfg.API.BaseURL+cfg.API.UsersPath).Msg("Using user API")
		return services.NewUserAPIClient(cfg.API.BaseURL, cfg.API.UsersPath, cfg.API.Timeout)
	}

	userDB := db.NewUserDB(&log.Logger)
	userDB.Seed(db.SeedOptions{
		Users:  cfg.Server.SeedUsers,
		Groups: cfg.Server.SeedGroups,
		Seed:   cfg.Server.Seed,
	})
	_, users := userDB.ListUsers()

	log.Debug().Int("users", len(users)).Msg("Using mock user API")
	return services.NewMockUserAPI(users, services.MockLatency{
		List:   *cfg.API.MockLatency.List,
		Update: *cfg.API.MockLatency.Update,
		Delete: *cfg.API.MockLatency.Delete,
		Status: *cfg.API.MockLatency.Status,
	})
}

// newNotifier returns a Pulsar publisher, or a discarding notifier when no
// Pulsar URL is configured or the publisher cannot be created.
func newNotifier(cfg *appconfig.Config) events.Notifier {
	if cfg.Pulsar.URL == "" {
		return events.Discard{}
	}

	publisher, err := events.NewEventPublisher(cfg.Pulsar.URL, cfg.Pulsar.TopicProducer)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize event publisher, user events disabled")
		return events.Discard{}
	}
	return publisher
}

// newView builds the admin view. The caller closes the notifier.
func newView(cfg *appconfig.Config, pageSize int) (*view.View, events.Notifier) {
	if pageSize <= 0 {
		pageSize = cfg.View.PageSize
	}
	notifier := newNotifier(cfg)
	return view.New(newUserAPI(cfg), pageSize, notifier, &log.Logger), notifier
}
