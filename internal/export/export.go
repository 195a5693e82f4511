// Package export writes lead backups as RFC 4180 CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/flash-crm/leads-cli/internal/model"
)

// Header is the exported column layout.
var Header = []string{
	"ID", "Nombre", "Teléfono", "Email", "Empresa", "Estado", "Estado Pago",
	"Fitness", "Notas", "Creado", "Actualizado",
}

// Filename returns the dated default export file name.
func Filename(now time.Time) string {
	return fmt.Sprintf("flashcrm_export_%s.csv", now.Format("2006-01-02"))
}

// WriteCSV writes active (non-deleted) leads to w. Notes for each lead are
// joined into a single column.
func WriteCSV(w io.Writer, leads []model.Lead, notes map[string][]model.Note) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, eris.Wrap(err, "export: write header")
	}

	written := 0
	for i := range leads {
		l := &leads[i]
		if l.DeletedAt != nil {
			continue
		}
		row := []string{
			l.ID,
			l.Name,
			l.Phone,
			l.Email,
			l.Company,
			string(l.Status),
			string(l.PaymentStatus),
			strconv.Itoa(l.FitnessScore),
			joinNotes(notes[l.ID]),
			l.CreatedAt.Format(time.RFC3339),
			l.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return written, eris.Wrapf(err, "export: write lead %s", l.ID)
		}
		written++
	}

	cw.Flush()
	return written, eris.Wrap(cw.Error(), "export: flush")
}

func joinNotes(notes []model.Note) string {
	if len(notes) == 0 {
		return ""
	}
	bodies := make([]string, len(notes))
	for i, n := range notes {
		bodies[i] = n.Body
	}
	return strings.Join(bodies, " | ")
}
