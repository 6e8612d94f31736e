package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the answer history",
	Long: `Clear every recorded answer, which resets the adaptive scheduler and the
dashboard. With --progress verb cards are locked again too. Session and card
events stay for the history screen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		progress, _ := cmd.Flags().GetBool("progress")
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		log := e.store.AttemptLog()
		n, err := log.Count(ctx)
		if err != nil {
			return fmt.Errorf("count answers: %w", err)
		}

		if !yes {
			what := fmt.Sprintf("%d answers", n)
			if progress {
				what += " and all card progress"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "This deletes %s. Continue? [y/N] ", what)
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := log.Clear(ctx); err != nil {
			return fmt.Errorf("clear answers: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d answers.\n", n)

		if progress {
			if err := e.store.ProgressionStore().Reset(ctx); err != nil {
				return fmt.Errorf("reset progress: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Card progress reset.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("progress", false, "Also lock all verb cards again")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
