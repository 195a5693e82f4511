package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/model"
	"github.com/flash-crm/leads-cli/internal/scorer"
	"github.com/flash-crm/leads-cli/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank stored leads by fitness score",
	Long: `Prints stored leads ranked by composite fitness score.

Scores are computed once at import and do not change when a lead is edited.
Use --recompute to re-run the scorer over the stored profile signals, for
example after tuning weights in the config file.

Examples:
  # Top 20 leads
  flashcrm score --limit 20

  # Export the ranking to CSV
  flashcrm score --format csv --output ranking.csv

  # Re-score all leads with the current weights
  flashcrm score --recompute`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Int("limit", 0, "maximum number of leads (0=all stored)")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "table", "output format: table or csv")
	f.Bool("recompute", false, "re-run the scorer over stored leads and save the results")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" {
		return eris.Errorf("score: --format must be table or csv (got %q)", format)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	recompute, _ := cmd.Flags().GetBool("recompute")
	outputPath, _ := cmd.Flags().GetString("output")

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if recompute {
		return recomputeScores(cmd, st)
	}

	if limit <= 0 {
		limit = 10000
	}
	leads, err := st.ListLeads(ctx, store.LeadFilter{Limit: limit})
	if err != nil {
		return eris.Wrap(err, "score: list leads")
	}

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create %s", outputPath)
		}
		defer f.Close()
		out = f
	}

	if format == "csv" {
		cw := csv.NewWriter(out)
		if err := cw.Write([]string{"id", "name", "phone", "fitness", "web", "gbp", "sercotec", "status"}); err != nil {
			return eris.Wrap(err, "score: write csv header")
		}
		for i := range leads {
			l := &leads[i]
			row := []string{
				l.ID, l.Name, l.Phone,
				strconv.Itoa(l.FitnessScore), strconv.Itoa(l.WebScore),
				strconv.Itoa(l.GBPScore), strconv.Itoa(l.SercotecScore),
				string(l.Status),
			}
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "score: write csv row")
			}
		}
		cw.Flush()
		return eris.Wrap(cw.Error(), "score: flush csv")
	}

	fmt.Fprintf(out, "%-4s %-30s %-14s %4s %4s %4s %4s  %s\n",
		"#", "NAME", "PHONE", "FIT", "WEB", "GBP", "SER", "STATUS")
	for i := range leads {
		l := &leads[i]
		fmt.Fprintf(out, "%-4d %-30.30s %-14s %4d %4d %4d %4d  %s\n",
			i+1, l.Name, l.Phone,
			l.FitnessScore, l.WebScore, l.GBPScore, l.SercotecScore, l.Status)
	}
	return nil
}

// recomputeScores re-runs the scorer over every stored lead using the
// profile signals preserved at import time.
func recomputeScores(cmd *cobra.Command, st store.Store) error {
	ctx := cmd.Context()
	sc := scorer.New(cfg.Scorer)

	leads, err := st.ListLeads(ctx, store.LeadFilter{IncludeDeleted: true, Limit: 1 << 20})
	if err != nil {
		return eris.Wrap(err, "score: list leads for recompute")
	}

	updated := 0
	for i := range leads {
		l := &leads[i]
		score := sc.Score(scorer.Signal{
			Website:     l.Website,
			Claimed:     l.Claimed,
			Verified:    l.Verified,
			ReviewCount: l.ReviewCount,
			Rating:      l.Rating,
			PhoneNumber: l.Phone,
			FullAddress: l.FullAddress,
		})
		if sameScores(l, score) {
			continue
		}
		if err := st.UpdateLeadScores(ctx, l.ID, score.General, score.Web, score.GBP, score.Sercotec); err != nil {
			return eris.Wrapf(err, "score: update lead %s", l.ID)
		}
		updated++
	}

	zap.L().Info("recompute complete",
		zap.Int("leads", len(leads)),
		zap.Int("updated", updated),
	)
	return nil
}

func sameScores(l *model.Lead, s scorer.Score) bool {
	return l.FitnessScore == s.General &&
		l.WebScore == s.Web &&
		l.GBPScore == s.GBP &&
		l.SercotecScore == s.Sercotec
}
