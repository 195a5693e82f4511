// Package model defines the lead-pipeline entities shared by the importer,
// store, CLI, and HTTP layers.
package model

import "time"

// Status tracks a lead through the manual sales pipeline.
type Status string

const (
	StatusLead        Status = "lead"
	StatusContacted   Status = "contactado"
	StatusMeeting     Status = "reunion"
	StatusNegotiation Status = "negociacion"
	StatusClosed      Status = "cerrado"
	StatusLost        Status = "perdido"
)

// Statuses lists every pipeline status in funnel order.
var Statuses = []Status{
	StatusLead, StatusContacted, StatusMeeting,
	StatusNegotiation, StatusClosed, StatusLost,
}

// Valid reports whether s is a known pipeline status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus tracks invoicing for closed clients.
type PaymentStatus string

const (
	PaymentNA      PaymentStatus = "na"
	PaymentPending PaymentStatus = "pendiente"
	PaymentPartial PaymentStatus = "parcial"
	PaymentPaid    PaymentStatus = "pagado"
)

// Interest marks which service line a lead cares about.
type Interest string

const (
	InterestWeb      Interest = "web"
	InterestGM       Interest = "gm"
	InterestSercotec Interest = "sercotec"
)

// Valid reports whether i is a known service line.
func (i Interest) Valid() bool {
	switch i {
	case InterestWeb, InterestGM, InterestSercotec:
		return true
	}
	return false
}

// Lead origins.
const (
	SourceImportCSV = "import_csv"
	SourceManual    = "manual"
)

// DefaultFitnessScore is assigned to manually created leads, which carry
// no import signals to score.
const DefaultFitnessScore = 50

// Lead is one prospective client. Score fields are set at import time and
// only change when re-scoring is requested explicitly.
type Lead struct {
	ID            string        `json:"id"`
	BusinessID    string        `json:"business_id,omitempty"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Company       string        `json:"company,omitempty"`
	Email         string        `json:"email,omitempty"`
	FullAddress   string        `json:"full_address,omitempty"`
	Website       string        `json:"website,omitempty"`
	PlaceLink     string        `json:"place_link,omitempty"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Interests     []Interest    `json:"interests,omitempty"`

	// Composite scoring, computed at import.
	FitnessScore  int `json:"fitness_score"`
	WebScore      int `json:"web_score"`
	GBPScore      int `json:"gbp_score"`
	SercotecScore int `json:"sercotec_score"`

	// Raw profile signals, kept so an explicit re-score can re-run the
	// scorer without the source file.
	Claimed     bool    `json:"is_claimed"`
	Verified    bool    `json:"verified"`
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`

	Source    string     `json:"source,omitempty"`
	SearchStr string     `json:"search_str,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Note is a timestamped remark attached to a lead.
type Note struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"lead_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// QuickNotes are the canned note bodies offered after a call.
var QuickNotes = []string{
	"No contestó",
	"Me pidió llamar mañana",
	"Envié propuesta",
	"Reunión agendada",
	"Interesado, seguimiento alto",
}
