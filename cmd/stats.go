package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/attempt"
	"github.com/abhisek/patterndrill/internal/pattern"
	"github.com/abhisek/patterndrill/internal/scheduler"
	"github.com/abhisek/patterndrill/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy per pattern and common mix-ups",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		all, err := e.store.AttemptLog().All(cmd.Context())
		if err != nil {
			return fmt.Errorf("read answers: %w", err)
		}
		top, _ := cmd.Flags().GetInt("top")
		printStats(cmd.OutOrStdout(), all, top)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("top", "n", 5, "Number of mix-ups to show")
}

func printStats(w io.Writer, all []attempt.Attempt, top int) {
	sum := stats.Compute(all)
	if sum.TotalQuestions == 0 {
		fmt.Fprintln(w, "No answers recorded yet.")
		return
	}

	fmt.Fprintf(w, "Answered  %d\n", sum.TotalQuestions)
	fmt.Fprintf(w, "Correct   %d (%.0f%%)\n", sum.CorrectCount, sum.Accuracy*100)
	fmt.Fprintf(w, "Avg time  %.1fs\n", float64(sum.AvgLatencyMs)/1000)
	fmt.Fprintf(w, "Level cap %d\n", scheduler.DifficultyCap(sum.CorrectCount))
	if sum.Skipped > 0 {
		fmt.Fprintf(w, "Skipped   %d malformed records\n", sum.Skipped)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-8s  %7s  %5s  %8s\n", "Pattern", "Correct", "Total", "Accuracy")
	fmt.Fprintln(w, strings.Repeat("─", 34))
	for _, p := range pattern.All() {
		ps := sum.PerPattern[p]
		acc := "-"
		if ps.Total > 0 {
			acc = fmt.Sprintf("%.0f%%", ps.Accuracy()*100)
		}
		fmt.Fprintf(w, "%-8s  %7d  %5d  %8s\n", p, ps.Correct, ps.Total, acc)
	}

	if confusions := stats.TopConfusions(sum, top); len(confusions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Top mix-ups")
		fmt.Fprintln(w, strings.Repeat("─", 34))
		for _, c := range confusions {
			if c.Chosen == pattern.None {
				fmt.Fprintf(w, "%-24s  %3d\n", c.Correct.String()+" ran out of time", c.Count)
				continue
			}
			fmt.Fprintf(w, "%-24s  %3d\n", fmt.Sprintf("%s taken for %s", c.Chosen, c.Correct), c.Count)
		}
	}

	var labels []string
	for _, p := range stats.Weakest(sum, 2) {
		if sum.PerPattern[p].Accuracy() < 1 {
			labels = append(labels, p.String())
		}
	}
	if len(labels) > 0 {
		fmt.Fprintf(w, "\nWeakest: %s\n", strings.Join(labels, ", "))
	}
	if focus := scheduler.FocusPatterns(all); len(focus) > 0 {
		var names []string
		for _, p := range focus {
			names = append(names, p.String())
		}
		fmt.Fprintf(w, "Focus:   %s\n", strings.Join(names, ", "))
	}
}
