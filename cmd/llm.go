package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/llm"
	"github.com/abhisek/patterndrill/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "List recent LLM requests with token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if purpose != "" {
			kept := events[:0]
			for _, ev := range events {
				if ev.Purpose == purpose {
					kept = append(kept, ev)
				}
			}
			events = kept
		}
		printLLMUsage(cmd.OutOrStdout(), events)
		return nil
	},
}

// modelUsage is the per-model token total for the cost table.
type modelUsage struct {
	model        string
	calls        int
	inputTokens  int
	outputTokens int
}

func printLLMUsage(w io.Writer, events []store.LLMRequestRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM requests recorded yet.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-10s  %-10s  %-28s  %6s  %6s  %7s  %s\n",
		"Timestamp", "Provider", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 104))

	byModel := make(map[string]*modelUsage)
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗ " + truncate(e.ErrorMessage, 40)
		}
		fmt.Fprintf(w, "%-19s  %-10s  %-10s  %-28s  %6d  %6d  %7d  %s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Provider, e.Purpose, truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)

		mu := byModel[e.Model]
		if mu == nil {
			mu = &modelUsage{model: e.Model}
			byModel[e.Model] = mu
		}
		mu.calls++
		mu.inputTokens += e.InputTokens
		mu.outputTokens += e.OutputTokens
	}

	models := make([]*modelUsage, 0, len(byModel))
	for _, mu := range byModel {
		models = append(models, mu)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].model < models[j].model })

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 72))

	var total float64
	var unknown []string
	for _, mu := range models {
		cost, ok := llm.LookupCost(mu.model)
		if !ok {
			unknown = append(unknown, mu.model)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.model, 32), mu.calls, mu.inputTokens, mu.outputTokens, "?")
			continue
		}
		c := cost.Cost(mu.inputTokens, mu.outputTokens)
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.model, 32), mu.calls, mu.inputTokens, mu.outputTokens, formatCost(c))
	}

	fmt.Fprintln(w, strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmUsageCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmUsageCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explain)")

	llmCmd.AddCommand(llmUsageCmd)
}
