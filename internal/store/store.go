package store

import (
	"context"
	"time"

	"github.com/flash-crm/leads-cli/internal/model"
)

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status         model.Status `json:"status,omitempty"`
	Query          string       `json:"query,omitempty"`
	IncludeDeleted bool         `json:"include_deleted,omitempty"`
	Limit          int          `json:"limit,omitempty"`
	Offset         int          `json:"offset,omitempty"`
}

// Store defines persistence for the lead pipeline.
type Store interface {
	// Leads
	AddLeads(ctx context.Context, leads []model.Lead) (int, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	UpdateLeadStatus(ctx context.Context, id string, status model.Status) error
	UpdateLeadScores(ctx context.Context, id string, fitness, web, gbp, sercotec int) error
	SoftDeleteLead(ctx context.Context, id string) error
	RestoreLead(ctx context.Context, id string) error

	// NextBestLead returns the new lead with the highest fitness score,
	// excluding ids in skip. When the skip set exhausts every candidate
	// the review cycle resets and the best remaining lead is returned.
	NextBestLead(ctx context.Context, skip []string) (*model.Lead, error)

	// Notes
	AddNote(ctx context.Context, note model.Note) error
	ListNotes(ctx context.Context, leadID string) ([]model.Note, error)

	// Calendar
	AddEvent(ctx context.Context, ev model.CalendarEvent) error
	ListEvents(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)

	// Reminders
	AddReminder(ctx context.Context, rem model.Reminder) error
	DueReminders(ctx context.Context, asOf time.Time) ([]model.Reminder, error)
	CompleteReminder(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
