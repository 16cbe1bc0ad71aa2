// Package report renders the table-based PDF exports.
package report

import (
	"fmt"
	"io"
	"time"

	"completions-tracker/internal/models"
	"completions-tracker/internal/tracking"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

var statusLabels = map[models.Status]string{
	models.StatusComplete:   "Completado",
	models.StatusInProgress: "En progreso",
	models.StatusDelayed:    "Retrasado",
}

type column struct {
	title string
	width float64
	align string
}

var projectColumns = []column{
	{"Proyecto", 70, "L"},
	{"Ubicación", 50, "L"},
	{"Estado", 30, "C"},
	{"Avance %", 22, "R"},
	{"Sistemas", 22, "R"},
	{"Compl. sistemas %", 32, "R"},
	{"ITRs (compl./total)", 34, "R"},
}

// ProjectStatusPDF writes the project status report. generated is printed
// in the header and stamped as the document date.
func ProjectStatusPDF(w io.Writer, rows []tracking.ProjectProgressRow, generated time.Time) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Reporte de estado de proyectos", true)
	pdf.SetCreationDate(generated)
	pdf.SetModificationDate(generated)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Reporte de estado de proyectos"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr("Generado: "+generated.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(31, 78, 121)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range projectColumns {
			pdf.CellFormat(c.width, 8, tr(c.title), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	if len(rows) == 0 {
		pdf.CellFormat(0, 8, tr("Sin proyectos registrados"), "1", 1, "C", false, 0, "")
	}

	_, pageH := pdf.GetPageSize()
	for i, r := range rows {
		if pdf.GetY() > pageH-25 {
			pdf.AddPage()
			header()
		}

		fill := i%2 == 1
		pdf.SetFillColor(235, 241, 247)
		cells := []string{
			r.Name,
			r.Location,
			statusLabel(r.Status),
			fmt.Sprintf("%d", r.Progress),
			fmt.Sprintf("%d", r.Systems),
			fmt.Sprintf("%d", r.SystemCompletion),
			fmt.Sprintf("%d/%d (%d%%)", r.ITRComplete, r.ITRTotal, r.ITRPercentage),
		}
		for j, c := range projectColumns {
			pdf.CellFormat(c.width, 7, tr(truncate(cells[j], c.width)), "1", 0, c.align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to render pdf")
	}
	return nil
}

func statusLabel(s models.Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// truncate keeps text inside a cell of width mm at 9pt (about 2mm a rune).
func truncate(s string, width float64) string {
	n := int(width / 2)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
