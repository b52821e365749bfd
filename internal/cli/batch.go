package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/nutriscout/internal/batch"
	"github.com/csheth/nutriscout/internal/logger"
)

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var (
		inPath  string
		outPath string
		column  string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Rate every ingredient list in a spreadsheet",
		Long: `Rate the ingredient lists in one column of the first sheet of an .xlsx
workbook. The first row is treated as a header. Results are written to a new
.xlsx or .csv file with one row per list; lists that fail keep their error
message in the last column and make the command exit non-zero.`,
		Example: `  nutriscout batch --in products.xlsx --out rated.xlsx
  nutriscout batch --in products.xlsx --column C --out rated.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			lists, err := batch.ReadColumn(inPath, column)
			if err != nil {
				return err
			}
			if len(lists) == 0 {
				return fmt.Errorf("no ingredient lists found in column %s of %s", column, inPath)
			}

			log := logger.New("batch", cmd.ErrOrStderr(), cfg.Log.Verbose)
			log.Info("rating %d lists against %s", len(lists), cfg.Endpoint)
			rows, err := batch.Rate(commandContext(cmd), newOrchestrator(cfg, log), lists)
			if err != nil {
				return fmt.Errorf("batch interrupted after %d lists: %w", len(rows), err)
			}
			if err := batch.Write(outPath, rows); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			rated, failed := batch.Summary(rows)
			fmt.Fprintf(cmd.OutOrStdout(), "Rated %d of %d lists (%d failed), wrote %s\n", rated, len(rows), failed, outPath)
			if failed > 0 {
				return fmt.Errorf("%d of %d lists failed, see the error column of %s", failed, len(rows), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "input .xlsx workbook")
	cmd.Flags().StringVar(&outPath, "out", "", "output .xlsx or .csv file")
	cmd.Flags().StringVar(&column, "column", "A", "column holding the ingredient lists")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
