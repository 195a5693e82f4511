package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/flash-crm/leads-cli/internal/model"
	"github.com/flash-crm/leads-cli/internal/normalize"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id             TEXT PRIMARY KEY,
	business_id    TEXT NOT NULL DEFAULT '',
	name           TEXT NOT NULL,
	phone          TEXT NOT NULL DEFAULT '',
	company        TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL DEFAULT '',
	full_address   TEXT NOT NULL DEFAULT '',
	website        TEXT NOT NULL DEFAULT '',
	place_link     TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'lead',
	payment_status TEXT NOT NULL DEFAULT 'na',
	interests      TEXT NOT NULL DEFAULT '[]',
	fitness_score  INTEGER NOT NULL DEFAULT 0,
	web_score      INTEGER NOT NULL DEFAULT 0,
	gbp_score      INTEGER NOT NULL DEFAULT 0,
	sercotec_score INTEGER NOT NULL DEFAULT 0,
	is_claimed     INTEGER NOT NULL DEFAULT 0,
	verified       INTEGER NOT NULL DEFAULT 0,
	review_count   INTEGER NOT NULL DEFAULT 0,
	rating         REAL NOT NULL DEFAULT 0,
	source         TEXT NOT NULL DEFAULT '',
	search_str     TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	deleted_at     DATETIME
);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL REFERENCES leads(id),
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	starts_at  DATETIME NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reminders (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL REFERENCES leads(id),
	message    TEXT NOT NULL,
	due_at     DATETIME NOT NULL,
	done       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_fitness ON leads(fitness_score);
CREATE INDEX IF NOT EXISTS idx_leads_search ON leads(search_str);
CREATE INDEX IF NOT EXISTS idx_notes_lead_id ON notes(lead_id);
CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at);
CREATE INDEX IF NOT EXISTS idx_reminders_due_at ON reminders(due_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const leadColumns = `id, business_id, name, phone, company, email, full_address,
	website, place_link, status, payment_status, interests,
	fitness_score, web_score, gbp_score, sercotec_score,
	is_claimed, verified, review_count, rating,
	source, search_str, created_at, updated_at, deleted_at`

// AddLeads inserts a batch of leads in a single transaction and returns
// the number inserted.
func (s *SQLiteStore) AddLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert leads")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leads (`+leadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert lead")
	}
	defer stmt.Close()

	for i := range leads {
		l := &leads[i]
		interests, err := json.Marshal(l.Interests)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: marshal interests for %s", l.ID)
		}
		_, err = stmt.ExecContext(ctx,
			l.ID, l.BusinessID, l.Name, l.Phone, l.Company, l.Email, l.FullAddress,
			l.Website, l.PlaceLink, string(l.Status), string(l.PaymentStatus), string(interests),
			l.FitnessScore, l.WebScore, l.GBPScore, l.SercotecScore,
			l.Claimed, l.Verified, l.ReviewCount, l.Rating,
			l.Source, l.SearchStr, l.CreatedAt, l.UpdatedAt, l.DeletedAt,
		)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert lead %s", l.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert leads")
	}
	return len(leads), nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("lead not found: %s", id)
	}
	return l, err
}

// ListLeads returns leads ranked by fitness score descending, newest first
// on ties.
func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE 1=1`
	var args []any

	if !filter.IncludeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Query != "" {
		query += ` AND search_str LIKE ?`
		args = append(args, "%"+normalize.SearchString(filter.Query)+"%")
	}
	query += ` ORDER BY fitness_score DESC, created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) UpdateLeadStatus(ctx context.Context, id string, status model.Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead status %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) UpdateLeadScores(ctx context.Context, id string, fitness, web, gbp, sercotec int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET fitness_score = ?, web_score = ?, gbp_score = ?, sercotec_score = ?, updated_at = ?
		 WHERE id = ?`,
		fitness, web, gbp, sercotec, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead scores %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) SoftDeleteLead(ctx context.Context, id string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: soft delete lead %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) RestoreLead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET deleted_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: restore lead %s", id)
	}
	return checkRowsAffected(res, "lead", id)
}

func (s *SQLiteStore) NextBestLead(ctx context.Context, skip []string) (*model.Lead, error) {
	lead, err := s.nextBest(ctx, skip)
	if err != nil {
		return nil, err
	}
	if lead == nil && len(skip) > 0 {
		// Every candidate was skipped this cycle; start over.
		return s.nextBest(ctx, nil)
	}
	return lead, nil
}

func (s *SQLiteStore) nextBest(ctx context.Context, skip []string) (*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads
		WHERE deleted_at IS NULL AND status = ?`
	args := []any{string(model.StatusLead)}

	if len(skip) > 0 {
		query += ` AND id NOT IN (?` + strings.Repeat(", ?", len(skip)-1) + `)`
		for _, id := range skip {
			args = append(args, id)
		}
	}
	query += ` ORDER BY fitness_score DESC, created_at DESC LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, args...)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

// --- Notes ---

func (s *SQLiteStore) AddNote(ctx context.Context, note model.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, lead_id, body, created_at) VALUES (?, ?, ?, ?)`,
		note.ID, note.LeadID, note.Body, note.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert note for lead %s", note.LeadID)
}

func (s *SQLiteStore) ListNotes(ctx context.Context, leadID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, body, created_at FROM notes WHERE lead_id = ? ORDER BY created_at DESC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list notes")
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.LeadID, &n.Body, &n.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan note")
		}
		notes = append(notes, n)
	}
	return notes, eris.Wrap(rows.Err(), "sqlite: list notes iterate")
}

// --- Calendar ---

func (s *SQLiteStore) AddEvent(ctx context.Context, ev model.CalendarEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, lead_id, type, title, starts_at, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.LeadID, string(ev.Type), ev.Title, ev.StartsAt, ev.Notes, ev.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert event")
}

func (s *SQLiteStore) ListEvents(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, type, title, starts_at, notes, created_at FROM events
		 WHERE starts_at >= ? AND starts_at < ? ORDER BY starts_at`,
		from, to,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list events")
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		var ev model.CalendarEvent
		var typ string
		if err := rows.Scan(&ev.ID, &ev.LeadID, &typ, &ev.Title, &ev.StartsAt, &ev.Notes, &ev.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan event")
		}
		ev.Type = model.EventType(typ)
		events = append(events, ev)
	}
	return events, eris.Wrap(rows.Err(), "sqlite: list events iterate")
}

// --- Reminders ---

func (s *SQLiteStore) AddReminder(ctx context.Context, rem model.Reminder) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (id, lead_id, message, due_at, done, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.LeadID, rem.Message, rem.DueAt, rem.Done, rem.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert reminder for lead %s", rem.LeadID)
}

func (s *SQLiteStore) DueReminders(ctx context.Context, asOf time.Time) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, message, due_at, done, created_at FROM reminders
		 WHERE done = 0 AND due_at <= ? ORDER BY due_at`,
		asOf,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: due reminders")
	}
	defer rows.Close()

	var rems []model.Reminder
	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.ID, &r.LeadID, &r.Message, &r.DueAt, &r.Done, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan reminder")
		}
		rems = append(rems, r)
	}
	return rems, eris.Wrap(rows.Err(), "sqlite: due reminders iterate")
}

func (s *SQLiteStore) CompleteReminder(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reminders SET done = 1 WHERE id = ?`, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete reminder %s", id)
	}
	return checkRowsAffected(res, "reminder", id)
}

// --- helpers ---

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var status, payment, interestsJSON string
	var deletedAt sql.NullTime

	err := row.Scan(
		&l.ID, &l.BusinessID, &l.Name, &l.Phone, &l.Company, &l.Email, &l.FullAddress,
		&l.Website, &l.PlaceLink, &status, &payment, &interestsJSON,
		&l.FitnessScore, &l.WebScore, &l.GBPScore, &l.SercotecScore,
		&l.Claimed, &l.Verified, &l.ReviewCount, &l.Rating,
		&l.Source, &l.SearchStr, &l.CreatedAt, &l.UpdatedAt, &deletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}

	l.Status = model.Status(status)
	l.PaymentStatus = model.PaymentStatus(payment)
	if err := json.Unmarshal([]byte(interestsJSON), &l.Interests); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal interests")
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		l.DeletedAt = &t
	}
	return &l, nil
}
