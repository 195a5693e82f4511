package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/model"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Attach notes to leads",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <lead-id> [body...]",
	Short: "Add a note to a lead",
	Long: `Adds a timestamped note. Pass the body as arguments, or use --quick N to
pick one of the canned post-call notes (1-based).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		quick, _ := cmd.Flags().GetInt("quick")

		var body string
		switch {
		case quick > 0:
			if quick > len(model.QuickNotes) {
				return eris.Errorf("note: --quick must be between 1 and %d", len(model.QuickNotes))
			}
			body = model.QuickNotes[quick-1]
		case len(args) > 1:
			body = strings.Join(args[1:], " ")
		default:
			return eris.New("note: body required (or use --quick)")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		// Fail early on unknown leads rather than inserting an orphan.
		if _, err := st.GetLead(ctx, args[0]); err != nil {
			return err
		}

		note := model.Note{
			ID:        uuid.New().String(),
			LeadID:    args[0],
			Body:      body,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.AddNote(ctx, note); err != nil {
			return err
		}
		zap.L().Info("note added",
			zap.String("lead_id", note.LeadID),
			zap.String("note_id", note.ID),
		)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list <lead-id>",
	Short: "List a lead's notes, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		notes, err := st.ListNotes(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, n := range notes {
			fmt.Fprintf(out, "%s  %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Body)
		}
		return nil
	},
}

func init() {
	noteAddCmd.Flags().Int("quick", 0, "use a canned quick note (1-based index)")
	noteCmd.AddCommand(noteAddCmd, noteListCmd)
	rootCmd.AddCommand(noteCmd)
}
