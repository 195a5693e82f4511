package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/export"
	"github.com/flash-crm/leads-cli/internal/model"
	"github.com/flash-crm/leads-cli/internal/store"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export active leads to a backup CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(ctx, store.LeadFilter{Limit: 1 << 20})
		if err != nil {
			return eris.Wrap(err, "export: list leads")
		}
		if len(leads) == 0 {
			return eris.New("export: no active leads to export")
		}

		notes := make(map[string][]model.Note, len(leads))
		for i := range leads {
			ns, err := st.ListNotes(ctx, leads[i].ID)
			if err != nil {
				return eris.Wrapf(err, "export: notes for %s", leads[i].ID)
			}
			if len(ns) > 0 {
				notes[leads[i].ID] = ns
			}
		}

		path := exportOutput
		if path == "" {
			path = export.Filename(time.Now())
		}
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", path)
		}
		defer f.Close()

		written, err := export.WriteCSV(f, leads, notes)
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.Int("leads", written),
			zap.String("file", path),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file path (default: flashcrm_export_<date>.csv)")
	rootCmd.AddCommand(exportCmd)
}
