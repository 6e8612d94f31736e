package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/patterndrill/internal/catalog"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Convert an xlsx, csv or json sentence bank into a catalog file",
	Long: `Read sentences from a spreadsheet, CSV or JSON file and write a validated
catalog JSON. Tabular files need the columns id, text, level, pattern and
optionally tags, summary and trap. Rows that fail validation are skipped and
reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		sheet, _ := cmd.Flags().GetString("sheet")
		ver, _ := cmd.Flags().GetString("version")

		res, err := catalog.Import(catalog.ImportConfig{
			FilePath:  args[0],
			SheetName: sheet,
			Version:   ver,
		})
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := catalog.Write(w, res.File); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}

		stderr := cmd.ErrOrStderr()
		for _, msg := range res.Errors {
			fmt.Fprintln(stderr, "skipped:", msg)
		}
		fmt.Fprintf(stderr, "Imported %d sentences, %d entities (%d skipped).\n",
			res.Imported, len(res.File.Entities), res.Skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("out", "o", "", "Write the catalog here instead of stdout")
	importCmd.Flags().String("sheet", "", "Worksheet name for xlsx input (default: first sheet)")
	importCmd.Flags().String("version", "1.0.0", "Catalog version to stamp on the output")
}
