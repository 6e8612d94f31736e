package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "patterndrill",
	Short: "Adaptive drills for English sentence patterns",
	Long: `patterndrill is a terminal trainer for the five basic English sentence
patterns (SV, SVC, SVO, SVOO, SVOC). It picks sentences you tend to get wrong,
unlocks verb cards as you play and keeps your history in a local database.

AI explanations for missed sentences are enabled by setting an LLM API key:
PATTERNDRILL_LLM_PROVIDER with PATTERNDRILL_LLM_API_KEY, or one of
GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides PATTERNDRILL_DB env var)")
	pf.String("config", "", "Path to TOML config file (default $XDG_CONFIG_HOME/patterndrill/config.toml)")
	pf.String("catalog", "", "Path to a catalog JSON file (default: built-in catalog)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(collectionCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PATTERNDRILL_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
