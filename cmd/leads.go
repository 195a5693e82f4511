package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/model"
	"github.com/flash-crm/leads-cli/internal/normalize"
	"github.com/flash-crm/leads-cli/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Browse and update stored leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads ranked by fitness score",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		status, _ := cmd.Flags().GetString("status")
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")
		deleted, _ := cmd.Flags().GetBool("deleted")

		if status != "" && !model.Status(status).Valid() {
			return eris.Errorf("leads: unknown status %q", status)
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			Status:         model.Status(status),
			Query:          query,
			IncludeDeleted: deleted,
			Limit:          limit,
		})
		if err != nil {
			return eris.Wrap(err, "leads: list")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s %-28s %-14s %4s  %s\n", "ID", "NAME", "PHONE", "FIT", "STATUS")
		for i := range leads {
			l := &leads[i]
			fmt.Fprintf(out, "%-36s %-28.28s %-14s %4d  %s\n",
				l.ID, l.Name, l.Phone, l.FitnessScore, l.Status)
		}
		return nil
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <lead-id>",
	Short: "Show one lead with its notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return err
		}
		notes, err := st.ListNotes(ctx, lead.ID)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(struct {
			Lead  *model.Lead  `json:"lead"`
			Notes []model.Note `json:"notes,omitempty"`
		}{lead, notes}), "leads: encode")
	},
}

var leadsNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Pick the next best lead to work",
	Long: `Picks the unworked lead with the highest fitness score. Pass --skip with
the ids already reviewed this cycle; when every candidate has been skipped
the cycle starts over.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		skipCSV, _ := cmd.Flags().GetString("skip")

		var skip []string
		if skipCSV != "" {
			skip = strings.Split(skipCSV, ",")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		lead, err := st.NextBestLead(ctx, skip)
		if err != nil {
			return eris.Wrap(err, "leads: next best")
		}
		if lead == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No hay más leads pendientes.")
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(lead), "leads: encode")
	},
}

var leadsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a lead by hand",
	Long: `Creates a lead outside the import pipeline. Manual leads carry no profile
signals to score, so they start at the neutral fitness score of 50.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")
		company, _ := cmd.Flags().GetString("company")
		address, _ := cmd.Flags().GetString("address")
		interestsCSV, _ := cmd.Flags().GetString("interests")

		var interests []model.Interest
		if interestsCSV != "" {
			for _, raw := range strings.Split(interestsCSV, ",") {
				in := model.Interest(strings.TrimSpace(raw))
				if !in.Valid() {
					return eris.Errorf("leads: unknown interest %q (valid: web, gm, sercotec)", raw)
				}
				interests = append(interests, in)
			}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		now := time.Now().UTC()
		lead := model.Lead{
			ID:            uuid.New().String(),
			Name:          args[0],
			Phone:         normalize.Phone(phone),
			Company:       company,
			Email:         email,
			FullAddress:   address,
			Status:        model.StatusLead,
			PaymentStatus: model.PaymentNA,
			Interests:     interests,
			FitnessScore:  model.DefaultFitnessScore,
			Source:        model.SourceManual,
			SearchStr:     normalize.SearchString(args[0], address),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := st.AddLeads(ctx, []model.Lead{lead}); err != nil {
			return err
		}
		zap.L().Info("lead created",
			zap.String("lead_id", lead.ID),
			zap.String("name", lead.Name),
		)
		fmt.Fprintln(cmd.OutOrStdout(), lead.ID)
		return nil
	},
}

var leadsStatusCmd = &cobra.Command{
	Use:   "status <lead-id> <status>",
	Short: "Move a lead through the pipeline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		status := model.Status(args[1])
		if !status.Valid() {
			return eris.Errorf("leads: unknown status %q (valid: %s)", args[1], statusList())
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.UpdateLeadStatus(ctx, args[0], status); err != nil {
			return err
		}
		zap.L().Info("lead status updated",
			zap.String("lead_id", args[0]),
			zap.String("status", string(status)),
		)
		return nil
	},
}

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <lead-id>",
	Short: "Soft-delete a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SoftDeleteLead(ctx, args[0]); err != nil {
			return err
		}
		zap.L().Info("lead deleted", zap.String("lead_id", args[0]))
		return nil
	},
}

var leadsRestoreCmd = &cobra.Command{
	Use:   "restore <lead-id>",
	Short: "Restore a soft-deleted lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.RestoreLead(ctx, args[0]); err != nil {
			return err
		}
		zap.L().Info("lead restored", zap.String("lead_id", args[0]))
		return nil
	},
}

func statusList() string {
	parts := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func init() {
	leadsListCmd.Flags().String("status", "", "filter by pipeline status")
	leadsListCmd.Flags().String("query", "", "substring search on name and address")
	leadsListCmd.Flags().Int("limit", 50, "maximum number of leads")
	leadsListCmd.Flags().Bool("deleted", false, "include soft-deleted leads")

	leadsNextCmd.Flags().String("skip", "", "comma-separated lead ids already reviewed this cycle")

	leadsAddCmd.Flags().String("phone", "", "phone number")
	leadsAddCmd.Flags().String("email", "", "email address")
	leadsAddCmd.Flags().String("company", "", "company name")
	leadsAddCmd.Flags().String("address", "", "full address")
	leadsAddCmd.Flags().String("interests", "", "comma-separated service lines: web, gm, sercotec")

	leadsCmd.AddCommand(leadsListCmd, leadsShowCmd, leadsNextCmd, leadsAddCmd, leadsStatusCmd, leadsDeleteCmd, leadsRestoreCmd)
	rootCmd.AddCommand(leadsCmd)
}
