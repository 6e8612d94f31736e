package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/app"
	sess "github.com/abhisek/patterndrill/internal/drill"
	drillscreen "github.com/abhisek/patterndrill/internal/screens/drill"
	"github.com/abhisek/patterndrill/internal/screens/home"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the drill menu",
	Long: `Start the terminal UI. --deck limits the mode items to sentences carrying
one tag, for example SVOC or v:give. --time-limit 0 turns the answer timer off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	playCmd.Flags().String("deck", "", "Only drill sentences with this tag")
	playCmd.Flags().String("mode", "", "Default mode: review, sniper or parse")
	playCmd.Flags().Duration("time-limit", 0, "Answer time limit for the default mode (0 disables)")
}

// runTUI opens the store, builds dependencies, and launches the TUI.
func runTUI(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	mode, err := sess.ParseMode(e.settings.Mode)
	if err != nil {
		return err
	}
	if deck := e.settings.Deck; deck != "" && len(e.catalog.Tagged(deck)) == 0 {
		return fmt.Errorf("no sentences tagged %q in catalog %s", deck, e.catalog.Version)
	}

	events := e.store.EventRepo()
	drill := drillscreen.Env{
		Catalog:   e.catalog,
		Log:       e.store.AttemptLog(),
		Engine:    e.engine(),
		Events:    events,
		Explainer: e.explainer(cmd.Context()),
		Logger:    e.logger,
		Mode:      mode,
		TimeLimit: e.settings.TimeLimit,
	}
	e.logger.Info("starting", "mode", mode, "deck", e.settings.Deck, "time_limit", e.settings.TimeLimit)

	return app.Run(app.Deps{
		Home: home.Deps{
			Drill:  drill,
			Deck:   e.settings.Deck,
			Events: events,
		},
		Logger: e.logger,
	})
}
