package model

import "time"

// EventType classifies calendar events.
type EventType string

const (
	EventMeeting  EventType = "meeting"
	EventCall     EventType = "call"
	EventDeadline EventType = "deadline"
	EventOther    EventType = "other"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventMeeting, EventCall, EventDeadline, EventOther:
		return true
	}
	return false
}

// CalendarEvent is a scheduled meeting, call, or delivery deadline,
// optionally tied to a lead.
type CalendarEvent struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id,omitempty"`
	Type      EventType `json:"type"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Reminder is a follow-up nudge for a lead.
type Reminder struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Message   string    `json:"message"`
	DueAt     time.Time `json:"due_at"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}
