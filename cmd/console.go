package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/EO-DataHub/eodhp-user-admin/internal/console"
	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start an interactive shell over the user listing",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config and set up logging
		commonSetUp()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()

		// Initialize readline with history file from config
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          console.Prompt,
			HistoryFile:     appCfg.Console.HistoryFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize readline")
		}
		defer rl.Close()

		v, notifier := newView(appCfg, 0)
		defer notifier.Close()

		c := console.NewConsole(v, rl)

		fmt.Fprintln(c.Out, "Loading users...")
		if err := v.Load(ctx); err != nil {
			fmt.Fprintf(c.Out, "Error: %v\nUse 'reload' to try again.\n", err)
		} else {
			console.RenderPage(c.Out, v.Snapshot())
		}
		fmt.Fprintln(c.Out, "Type 'help' for a list of commands.")

		if err := c.Loop(ctx); err != nil {
			log.Error().Err(err).Msg("Console stopped")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
