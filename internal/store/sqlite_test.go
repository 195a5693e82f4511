package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flash-crm/leads-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testLead(name string, fitness int) model.Lead {
	now := time.Now().UTC().Truncate(time.Second)
	return model.Lead{
		ID:            uuid.NewString(),
		Name:          name,
		Phone:         "+56987654321",
		Status:        model.StatusLead,
		PaymentStatus: model.PaymentNA,
		Interests:     []model.Interest{model.InterestWeb},
		FitnessScore:  fitness,
		Source:        model.SourceImportCSV,
		SearchStr:     name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestAddAndGetLead(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("taller uno", 63)
	lead.BusinessID = "0xabc:0x123"
	lead.FullAddress = "Av. Brasil 123"
	lead.Website = "https://instagram.com/uno"
	lead.Claimed = true
	lead.ReviewCount = 12
	lead.Rating = 4.5
	lead.WebScore = 100
	lead.GBPScore = 20
	lead.SercotecScore = 75

	n, err := s.AddLeads(ctx, []model.Lead{lead})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.Name, got.Name)
	assert.Equal(t, lead.BusinessID, got.BusinessID)
	assert.Equal(t, lead.Phone, got.Phone)
	assert.Equal(t, model.StatusLead, got.Status)
	assert.Equal(t, model.PaymentNA, got.PaymentStatus)
	assert.Equal(t, []model.Interest{model.InterestWeb}, got.Interests)
	assert.Equal(t, 63, got.FitnessScore)
	assert.Equal(t, 100, got.WebScore)
	assert.Equal(t, 20, got.GBPScore)
	assert.Equal(t, 75, got.SercotecScore)
	assert.True(t, got.Claimed)
	assert.False(t, got.Verified)
	assert.Equal(t, 12, got.ReviewCount)
	assert.InDelta(t, 4.5, got.Rating, 1e-9)
	assert.Nil(t, got.DeletedAt)
}

func TestGetLead_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.GetLead(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}

func TestAddLeads_Empty(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	n, err := s.AddLeads(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestListLeads_RankedByFitness(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	leads := []model.Lead{
		testLead("medio", 50),
		testLead("alto", 90),
		testLead("bajo", 10),
	}
	_, err := s.AddLeads(ctx, leads)
	require.NoError(t, err)

	got, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alto", got[0].Name)
	assert.Equal(t, "medio", got[1].Name)
	assert.Equal(t, "bajo", got[2].Name)
}

func TestListLeads_Filters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	contacted := testLead("panaderia central", 40)
	contacted.Status = model.StatusContacted
	fresh := testLead("taller mecanico", 80)

	_, err := s.AddLeads(ctx, []model.Lead{contacted, fresh})
	require.NoError(t, err)

	byStatus, err := s.ListLeads(ctx, LeadFilter{Status: model.StatusContacted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "panaderia central", byStatus[0].Name)

	byQuery, err := s.ListLeads(ctx, LeadFilter{Query: "Panadería"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "panaderia central", byQuery[0].Name)

	limited, err := s.ListLeads(ctx, LeadFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "taller mecanico", limited[0].Name)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("efimero", 30)
	_, err := s.AddLeads(ctx, []model.Lead{lead})
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteLead(ctx, lead.ID))

	active, err := s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := s.ListLeads(ctx, LeadFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotNil(t, all[0].DeletedAt)

	// Deleting an already deleted lead affects no rows.
	err = s.SoftDeleteLead(ctx, lead.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")

	require.NoError(t, s.RestoreLead(ctx, lead.ID))
	active, err = s.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Nil(t, active[0].DeletedAt)
}

func TestUpdateLeadStatus(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("avanzando", 70)
	_, err := s.AddLeads(ctx, []model.Lead{lead})
	require.NoError(t, err)

	require.NoError(t, s.UpdateLeadStatus(ctx, lead.ID, model.StatusMeeting))

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMeeting, got.Status)

	err = s.UpdateLeadStatus(ctx, "missing", model.StatusClosed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}

func TestUpdateLeadScores(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("recalculado", 50)
	_, err := s.AddLeads(ctx, []model.Lead{lead})
	require.NoError(t, err)

	require.NoError(t, s.UpdateLeadScores(ctx, lead.ID, 63, 100, 20, 75))

	got, err := s.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, 63, got.FitnessScore)
	assert.Equal(t, 100, got.WebScore)
	assert.Equal(t, 20, got.GBPScore)
	assert.Equal(t, 75, got.SercotecScore)

	err = s.UpdateLeadScores(ctx, "missing", 1, 1, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead not found")
}

func TestNextBestLead(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	best := testLead("mejor", 95)
	second := testLead("segundo", 70)
	contacted := testLead("ya contactado", 99)
	contacted.Status = model.StatusContacted
	deleted := testLead("borrado", 100)

	_, err := s.AddLeads(ctx, []model.Lead{best, second, contacted, deleted})
	require.NoError(t, err)
	require.NoError(t, s.SoftDeleteLead(ctx, deleted.ID))

	// Highest fitness among active leads in status "lead".
	got, err := s.NextBestLead(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mejor", got.Name)

	// Skipping the best moves to the runner-up.
	got, err = s.NextBestLead(ctx, []string{best.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "segundo", got.Name)

	// Skipping everything resets the cycle back to the best.
	got, err = s.NextBestLead(ctx, []string{best.ID, second.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mejor", got.Name)
}

func TestNextBestLead_NoCandidates(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.NextBestLead(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNotes(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("con notas", 60)
	_, err := s.AddLeads(ctx, []model.Lead{lead})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	older := model.Note{ID: uuid.NewString(), LeadID: lead.ID, Body: "Llamar mañana", CreatedAt: now.Add(-time.Hour)}
	newer := model.Note{ID: uuid.NewString(), LeadID: lead.ID, Body: "Interesado en web", CreatedAt: now}

	require.NoError(t, s.AddNote(ctx, older))
	require.NoError(t, s.AddNote(ctx, newer))

	notes, err := s.ListNotes(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Interesado en web", notes[0].Body) // newest first
	assert.Equal(t, "Llamar mañana", notes[1].Body)

	empty, err := s.ListNotes(ctx, "other-lead")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEvents_RangeQuery(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	inside := model.CalendarEvent{
		ID: uuid.NewString(), Type: model.EventMeeting,
		Title: "Reunión inicial", StartsAt: base, CreatedAt: base,
	}
	before := model.CalendarEvent{
		ID: uuid.NewString(), Type: model.EventCall,
		Title: "Llamada previa", StartsAt: base.Add(-48 * time.Hour), CreatedAt: base,
	}
	after := model.CalendarEvent{
		ID: uuid.NewString(), Type: model.EventDeadline,
		Title: "Entrega", StartsAt: base.Add(10 * 24 * time.Hour), CreatedAt: base,
	}
	for _, ev := range []model.CalendarEvent{inside, before, after} {
		require.NoError(t, s.AddEvent(ctx, ev))
	}

	got, err := s.ListEvents(ctx, base.Add(-time.Hour), base.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Reunión inicial", got[0].Title)
	assert.Equal(t, model.EventMeeting, got[0].Type)
}

func TestReminders(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	lead := testLead("recordado", 55)
	_, err := s.AddLeads(ctx, []model.Lead{lead})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	due := model.Reminder{ID: uuid.NewString(), LeadID: lead.ID, Message: "Enviar propuesta", DueAt: now.Add(-time.Minute), CreatedAt: now}
	future := model.Reminder{ID: uuid.NewString(), LeadID: lead.ID, Message: "Seguimiento", DueAt: now.Add(24 * time.Hour), CreatedAt: now}

	require.NoError(t, s.AddReminder(ctx, due))
	require.NoError(t, s.AddReminder(ctx, future))

	pending, err := s.DueReminders(ctx, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Enviar propuesta", pending[0].Message)

	require.NoError(t, s.CompleteReminder(ctx, due.ID))

	pending, err = s.DueReminders(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = s.CompleteReminder(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder not found")
}
