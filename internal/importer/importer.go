// Package importer turns a raw CSV export of business listings into scored
// leads.
package importer

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flash-crm/leads-cli/internal/csvline"
	"github.com/flash-crm/leads-cli/internal/model"
	"github.com/flash-crm/leads-cli/internal/normalize"
	"github.com/flash-crm/leads-cli/internal/scorer"
)

// Fixed positional column layout of the listing export.
const (
	colBusinessID  = 0
	colPhoneNumber = 1
	colName        = 2
	colFullAddress = 3
	colReviewCount = 6
	colRating      = 7
	colWebsite     = 9
	colPlaceLink   = 11
	colIsClaimed   = 14
	colVerified    = 15
)

// minColumns is the admission floor: lines resolving to fewer parsed
// fields are discarded.
const minColumns = 3

// Options configures an import run.
type Options struct {
	// Concurrency bounds the parallel line workers. Values < 1 mean
	// sequential.
	Concurrency int
	// Weights overrides the scoring weights; zero value uses defaults.
	Weights scorer.Weights
}

// Stats summarizes what happened to each input line.
type Stats struct {
	Lines               int  `json:"lines"`
	Imported            int  `json:"imported"`
	SkippedShortRow     int  `json:"skipped_short_row"`
	SkippedInvalidPhone int  `json:"skipped_invalid_phone"`
	HeaderDetected      bool `json:"header_detected"`
}

// Run reads a listing export and returns scored leads in input order.
// Records are independent, so lines are parsed and scored in parallel;
// results land in an index-addressed slice to keep ordering deterministic.
func Run(ctx context.Context, r io.Reader, opts Options) ([]model.Lead, Stats, error) {
	var stats Stats

	lines, err := readLines(r)
	if err != nil {
		return nil, stats, eris.Wrap(err, "importer: read input")
	}
	stats.Lines = len(lines)

	start := 0
	if len(lines) > 0 && looksLikeHeader(lines[0]) {
		stats.HeaderDetected = true
		start = 1
	}

	sc := scorer.New(opts.Weights)
	now := time.Now().UTC()

	results := make([]*model.Lead, len(lines))
	var shortRows, badPhones atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 1 {
		g.SetLimit(opts.Concurrency)
	} else {
		g.SetLimit(1)
	}

	for i := start; i < len(lines); i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lead, reason := leadFromLine(lines[i], sc, now)
			switch reason {
			case skipShortRow:
				shortRows.Add(1)
			case skipInvalidPhone:
				badPhones.Add(1)
			case skipNone:
				results[i] = lead
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, eris.Wrap(err, "importer: process lines")
	}

	leads := make([]model.Lead, 0, len(lines))
	for _, l := range results {
		if l != nil {
			leads = append(leads, *l)
		}
	}

	stats.Imported = len(leads)
	stats.SkippedShortRow = int(shortRows.Load())
	stats.SkippedInvalidPhone = int(badPhones.Load())

	zap.L().Info("importer: run complete",
		zap.Int("lines", stats.Lines),
		zap.Int("imported", stats.Imported),
		zap.Int("skipped_short_row", stats.SkippedShortRow),
		zap.Int("skipped_invalid_phone", stats.SkippedInvalidPhone),
		zap.Bool("header_detected", stats.HeaderDetected),
	)

	return leads, stats, nil
}

type skipReason int

const (
	skipNone skipReason = iota
	skipBlank
	skipShortRow
	skipInvalidPhone
)

// leadFromLine parses, validates, and scores a single export line.
func leadFromLine(line string, sc *scorer.Scorer, now time.Time) (*model.Lead, skipReason) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, skipBlank
	}

	cols := csvline.ParseLine(line)
	if len(cols) < minColumns {
		return nil, skipShortRow
	}

	phone := normalize.Phone(col(cols, colPhoneNumber))
	if !normalize.ValidMobile(phone) {
		return nil, skipInvalidPhone
	}

	sig := scorer.Signal{
		Website:     col(cols, colWebsite),
		Claimed:     normalize.Bool(col(cols, colIsClaimed)),
		Verified:    normalize.Bool(col(cols, colVerified)),
		ReviewCount: normalize.LeadingInt(col(cols, colReviewCount)),
		Rating:      normalize.LeadingFloat(col(cols, colRating)),
		PhoneNumber: phone,
		FullAddress: col(cols, colFullAddress),
	}
	score := sc.Score(sig)

	name := col(cols, colName)
	lead := &model.Lead{
		ID:            uuid.New().String(),
		BusinessID:    col(cols, colBusinessID),
		Name:          name,
		Phone:         phone,
		Company:       name,
		FullAddress:   sig.FullAddress,
		Website:       sig.Website,
		PlaceLink:     col(cols, colPlaceLink),
		Status:        model.StatusLead,
		PaymentStatus: model.PaymentNA,
		FitnessScore:  score.General,
		WebScore:      score.Web,
		GBPScore:      score.GBP,
		SercotecScore: score.Sercotec,
		Claimed:       sig.Claimed,
		Verified:      sig.Verified,
		ReviewCount:   sig.ReviewCount,
		Rating:        sig.Rating,
		Source:        model.SourceImportCSV,
		SearchStr:     normalize.SearchString(name, sig.FullAddress),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if lead.Name == "" {
		lead.Name = "Sin Nombre"
	}
	return lead, skipNone
}

// looksLikeHeader sniffs line 0 for column-name fragments. Heuristic, not
// a schema: exports arrive both with and without a header row.
func looksLikeHeader(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	return strings.Contains(l, "business_id") ||
		strings.Contains(l, "phone") ||
		strings.Contains(l, "name")
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func col(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}
