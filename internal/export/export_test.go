package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flash-crm/leads-cli/internal/model"
)

func TestFilename(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "flashcrm_export_2026-08-31.csv", Filename(now))
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	deletedAt := created.Add(time.Hour)

	leads := []model.Lead{
		{
			ID:            "lead-1",
			Name:          "Café Ñandú",
			Phone:         "+56987654321",
			Email:         "hola@nandu.cl",
			Company:       "Café Ñandú SpA",
			Status:        model.StatusContacted,
			PaymentStatus: model.PaymentPending,
			FitnessScore:  63,
			CreatedAt:     created,
			UpdatedAt:     created,
		},
		{
			ID:        "lead-2",
			Name:      "Borrado",
			Status:    model.StatusLead,
			DeletedAt: &deletedAt,
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			ID:            "lead-3",
			Name:          "Sin Nombre",
			Status:        model.StatusLead,
			PaymentStatus: model.PaymentNA,
			FitnessScore:  76,
			CreatedAt:     created,
			UpdatedAt:     created,
		},
	}
	notes := map[string][]model.Note{
		"lead-1": {
			{Body: "No contestó"},
			{Body: "Me pidió llamar mañana"},
		},
	}

	var buf bytes.Buffer
	written, err := WriteCSV(&buf, leads, notes)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 active leads

	assert.Equal(t, Header, records[0])

	first := records[1]
	assert.Equal(t, "lead-1", first[0])
	assert.Equal(t, "Café Ñandú", first[1])
	assert.Equal(t, "+56987654321", first[2])
	assert.Equal(t, "contactado", first[5])
	assert.Equal(t, "pendiente", first[6])
	assert.Equal(t, "63", first[7])
	assert.Equal(t, "No contestó | Me pidió llamar mañana", first[8])
	assert.Equal(t, "2026-01-15T10:00:00Z", first[9])

	second := records[2]
	assert.Equal(t, "lead-3", second[0])
	assert.Equal(t, "", second[8]) // no notes
}

func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	written, err := WriteCSV(&buf, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Header, records[0])
}
