package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/importer"
)

var (
	importCSVPath string
	importDryRun  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import and score leads from a listing CSV export",
	Long: `Reads a business-listing CSV export, scores every row, and stores the
resulting leads.

Rows with fewer than 3 parsed columns are skipped, as are rows whose phone
number is not a valid Chilean mobile. A header row is detected and skipped
automatically.

Examples:
  # Import a listing export
  flashcrm import --csv leads.csv

  # Parse and score without writing to the store
  flashcrm import --csv leads.csv --dry-run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrapf(err, "import: open %s", importCSVPath)
		}
		defer f.Close()

		leads, stats, err := importer.Run(ctx, f, importer.Options{
			Concurrency: cfg.Import.Concurrency,
			Weights:     cfg.Scorer,
		})
		if err != nil {
			return eris.Wrap(err, "import: run")
		}

		if importDryRun {
			zap.L().Info("import dry run complete",
				zap.Int("parsed", len(leads)),
				zap.Int("skipped_short_row", stats.SkippedShortRow),
				zap.Int("skipped_invalid_phone", stats.SkippedInvalidPhone),
			)
			return nil
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		created, err := st.AddLeads(ctx, leads)
		if err != nil {
			return eris.Wrap(err, "import: store leads")
		}

		zap.L().Info("import complete",
			zap.Int("created", created),
			zap.Int("skipped_short_row", stats.SkippedShortRow),
			zap.Int("skipped_invalid_phone", stats.SkippedInvalidPhone),
			zap.Bool("header_detected", stats.HeaderDetected),
			zap.String("csv", importCSVPath),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and score only, do not store")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
