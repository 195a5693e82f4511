package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flash-crm/leads-cli/internal/model"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage calendar events",
}

var eventsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Schedule a meeting, call, or deadline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		typ, _ := cmd.Flags().GetString("type")
		at, _ := cmd.Flags().GetString("at")
		leadID, _ := cmd.Flags().GetString("lead")
		notes, _ := cmd.Flags().GetString("notes")

		eventType := model.EventType(typ)
		if !eventType.Valid() {
			return eris.Errorf("events: unknown type %q (valid: meeting, call, deadline, other)", typ)
		}
		startsAt, err := parseWhen(at)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ev := model.CalendarEvent{
			ID:        uuid.New().String(),
			LeadID:    leadID,
			Type:      eventType,
			Title:     args[0],
			StartsAt:  startsAt,
			Notes:     notes,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.AddEvent(ctx, ev); err != nil {
			return err
		}
		zap.L().Info("event added",
			zap.String("event_id", ev.ID),
			zap.String("type", string(ev.Type)),
			zap.Time("starts_at", ev.StartsAt),
		)
		return nil
	},
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events in a date range (default: next 7 days)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		from := time.Now().UTC().Truncate(24 * time.Hour)
		to := from.AddDate(0, 0, 7)
		var err error
		if fromStr != "" {
			if from, err = parseWhen(fromStr); err != nil {
				return err
			}
		}
		if toStr != "" {
			if to, err = parseWhen(toStr); err != nil {
				return err
			}
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.ListEvents(ctx, from, to)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, ev := range events {
			fmt.Fprintf(out, "%s  %-8s  %s\n",
				ev.StartsAt.Format("2006-01-02 15:04"), ev.Type, ev.Title)
		}
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Manage follow-up reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add <lead-id> <message>",
	Short: "Add a reminder for a lead",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		at, _ := cmd.Flags().GetString("at")

		dueAt, err := parseWhen(at)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if _, err := st.GetLead(ctx, args[0]); err != nil {
			return err
		}

		rem := model.Reminder{
			ID:        uuid.New().String(),
			LeadID:    args[0],
			Message:   args[1],
			DueAt:     dueAt,
			CreatedAt: time.Now().UTC(),
		}
		if err := st.AddReminder(ctx, rem); err != nil {
			return err
		}
		zap.L().Info("reminder added",
			zap.String("lead_id", rem.LeadID),
			zap.Time("due_at", rem.DueAt),
		)
		return nil
	},
}

var remindDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List reminders due now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rems, err := st.DueReminders(ctx, time.Now().UTC())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range rems {
			fmt.Fprintf(out, "%s  %-36s  %s\n",
				r.DueAt.Format("2006-01-02 15:04"), r.LeadID, r.Message)
		}
		return nil
	},
}

var remindDoneCmd = &cobra.Command{
	Use:   "done <reminder-id>",
	Short: "Mark a reminder as handled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		return st.CompleteReminder(ctx, args[0])
	},
}

// parseWhen accepts "2006-01-02 15:04" or a bare date.
func parseWhen(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, eris.Errorf("invalid time %q (expected YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
}

func init() {
	eventsAddCmd.Flags().String("type", "meeting", "event type: meeting, call, deadline, other")
	eventsAddCmd.Flags().String("at", "", "start time (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	eventsAddCmd.Flags().String("lead", "", "lead id to link")
	eventsAddCmd.Flags().String("notes", "", "free-text notes")
	_ = eventsAddCmd.MarkFlagRequired("at")

	eventsListCmd.Flags().String("from", "", "range start (default today)")
	eventsListCmd.Flags().String("to", "", "range end (default +7 days)")

	remindAddCmd.Flags().String("at", "", "due time (YYYY-MM-DD or YYYY-MM-DD HH:MM)")
	_ = remindAddCmd.MarkFlagRequired("at")

	eventsCmd.AddCommand(eventsAddCmd, eventsListCmd)
	remindCmd.AddCommand(remindAddCmd, remindDueCmd, remindDoneCmd)
	rootCmd.AddCommand(eventsCmd, remindCmd)
}
