package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/progression"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "List verb cards with their rarity and level",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		all, _ := cmd.Flags().GetBool("all")
		printCollection(cmd.OutOrStdout(), e.engine().Collection(cmd.Context()), all)
		return nil
	},
}

func init() {
	collectionCmd.Flags().BoolP("all", "a", false, "Include locked cards")
}

func printCollection(w io.Writer, cards []progression.Card, all bool) {
	fmt.Fprintf(w, "%d of %d cards unlocked\n\n", progression.Unlocked(cards), len(cards))
	fmt.Fprintf(w, "%-14s  %-10s  %5s  %9s  %7s  %5s\n", "Card", "Rarity", "Level", "XP", "Correct", "Wrong")
	fmt.Fprintln(w, strings.Repeat("─", 58))

	for _, c := range cards {
		rarity := c.Entity.Rarity.DisplayName()
		if c.Locked {
			if all {
				fmt.Fprintf(w, "%-14s  %-10s  %5s\n", "?????", rarity, "-")
			}
			continue
		}
		xp := fmt.Sprintf("%d/%d", c.Exp, c.Next)
		if c.Level >= progression.MaxLevel {
			xp = fmt.Sprintf("%d max", c.Exp)
		}
		fmt.Fprintf(w, "%-14s  %-10s  %5d  %9s  %7d  %5d\n",
			truncate(c.Entity.ID, 14), rarity, c.Level, xp,
			c.History.CorrectCount, c.History.WrongCount)
	}
}
