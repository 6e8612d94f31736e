package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/explain"
	"github.com/abhisek/patterndrill/internal/judge"
	"github.com/abhisek/patterndrill/internal/pattern"
)

var explainCmd = &cobra.Command{
	Use:   "explain STIMULUS_ID CHOSEN",
	Short: "Explain why a sentence is not the pattern you chose",
	Long: `Judge CHOSEN (SV, SVC, SVO, SVOO or SVOC) against a catalog sentence and
print its explanation. When the catalog has no trap note for the miss, the
configured LLM is asked for one.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chosen, err := pattern.Parse(args[1])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		stim, ok := e.catalog.Stimulus(args[0])
		if !ok {
			return fmt.Errorf("no sentence with id %q in catalog %s", args[0], e.catalog.Version)
		}

		out := cmd.OutOrStdout()
		res := judge.Judge(stim, chosen)
		fmt.Fprintf(out, "%s\n\n", stim.Text)
		fmt.Fprintln(out, res.Headline())
		if res.Explanation.Summary != "" {
			fmt.Fprintln(out, res.Explanation.Summary)
		}
		if res.Explanation.Trap != "" {
			fmt.Fprintln(out, "Trap:", res.Explanation.Trap)
		}
		if !explain.NeedsHelp(stim, chosen) {
			return nil
		}

		ctx := cmd.Context()
		p, found, err := e.provider(ctx)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		if !found {
			return errors.New("no LLM API key set; see patterndrill --help")
		}
		ex, err := explain.New(p, e.logger).Explain(ctx, stim, chosen)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nAI: %s\n", ex.Summary)
		if ex.Trap != "" {
			fmt.Fprintln(out, "Trap:", ex.Trap)
		}
		return nil
	},
}
