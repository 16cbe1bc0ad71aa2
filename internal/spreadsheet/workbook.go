package spreadsheet

import (
	"io"
	"strconv"
	"time"

	"completions-tracker/internal/models"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	EntityTags      = "tags"
	EntityTestPacks = "test-packs"
	EntityITRs      = "itrs"

	instructionsSheet = "Instrucciones"
	dateLayout        = "2006-01-02"
)

var columns = map[string][]string{
	EntityTags:      {"tag_name", "estado"},
	EntityTestPacks: {"sistema", "subsistema", "nombre", "itr_asociado"},
	EntityITRs:      {"subsystem_id", "name", "status", "progress", "assigned_to", "quantity", "start_date", "due_date"},
}

var instructions = map[string][]string{
	EntityTags: {
		"Una fila por tag. La primera fila es el encabezado y no se importa.",
		"tag_name: obligatorio.",
		"estado: pendiente o liberado (por defecto pendiente).",
		"Los tags se crean en el test pack seleccionado al importar. Importar dos veces el mismo archivo duplica los tags.",
	},
	EntityTestPacks: {
		"Una fila por test pack. La primera fila es el encabezado y no se importa.",
		"nombre: obligatorio. Si ya existe un test pack con el mismo nombre, la fila se omite.",
		"itr_asociado: ID numérico del ITR o su nombre exacto (opcional).",
	},
	EntityITRs: {
		"Una fila por ITR. La primera fila es el encabezado y no se importa.",
		"subsystem_id y name: obligatorios. Si el subsistema ya tiene un ITR con ese nombre, la fila se omite.",
		"status: complete, inprogress o delayed (por defecto inprogress).",
		"Fechas en formato AAAA-MM-DD o DD/MM/AAAA.",
	},
}

// Entities lists the importable entities.
func Entities() []string {
	return []string{EntityTags, EntityTestPacks, EntityITRs}
}

func Columns(entity string) ([]string, bool) {
	c, ok := columns[entity]
	return c, ok
}

// WriteTemplate writes an empty import workbook: the header row plus an
// instructions sheet.
func WriteTemplate(w io.Writer, entity string) error {
	cols, ok := columns[entity]
	if !ok {
		return errors.Errorf("unknown entity %q", entity)
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := writeSheet(f, entity, header, nil); err != nil {
		return err
	}
	if err := writeInstructions(f, instructions[entity]); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteTestPacks exports packs (with tags loaded) to a workbook with one
// sheet of packs, one of tags and the instructions.
func WriteTestPacks(w io.Writer, packs []models.TestPack) error {
	f := excelize.NewFile()
	defer f.Close()

	packRows := make([][]interface{}, 0, len(packs))
	var tagRows [][]interface{}
	for _, p := range packs {
		released := 0
		for _, t := range p.Tags {
			if t.Estado == models.TagLiberado {
				released++
			}
			tagRows = append(tagRows, []interface{}{
				p.Nombre, t.TagName, string(t.Estado), formatTime(t.FechaLiberacion),
			})
		}
		packRows = append(packRows, []interface{}{
			p.ID, p.Sistema, p.Subsistema, p.Nombre, itrLabel(p), string(p.Estado), p.Progress, len(p.Tags), released,
		})
	}

	if err := writeSheet(f, "TestPacks",
		[]interface{}{"id", "sistema", "subsistema", "nombre", "itr_asociado", "estado", "progreso", "tags", "liberados"},
		packRows); err != nil {
		return err
	}
	if _, err := f.NewSheet("Tags"); err != nil {
		return errors.Wrap(err, "failed to add sheet")
	}
	if err := writeSheet(f, "Tags",
		[]interface{}{"test_pack", "tag_name", "estado", "fecha_liberacion"},
		tagRows); err != nil {
		return err
	}
	if err := writeInstructions(f, []string{
		"Exportación de test packs. progreso = tags liberados / tags totales x 100.",
		"Para reimportar use la plantilla de test packs: las columnas id, estado, progreso, tags y liberados se ignoran.",
	}); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteITRs exports ITRs; subsystems maps subsystem id to its name.
func WriteITRs(w io.Writer, itrs []models.ITR, subsystems map[uint]string) error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make([][]interface{}, 0, len(itrs))
	for _, it := range itrs {
		rows = append(rows, []interface{}{
			it.ID, it.SubsystemID, subsystems[it.SubsystemID], it.Name, string(it.Status), it.Progress,
			it.AssignedTo, it.Quantity, formatDate(it.StartDate), formatDate(it.DueDate),
		})
	}

	if err := writeSheet(f, "ITRs",
		[]interface{}{"id", "subsystem_id", "subsistema", "name", "status", "progress", "assigned_to", "quantity", "start_date", "due_date"},
		rows); err != nil {
		return err
	}
	if err := writeInstructions(f, instructions[EntityITRs]); err != nil {
		return err
	}
	return f.Write(w)
}

// writeSheet fills sheet (renaming the default first sheet when needed)
// with a bold header row followed by rows.
func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return errors.Wrap(err, "failed to name sheet")
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeInstructions(f *excelize.File, lines []string) error {
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return errors.Wrap(err, "failed to add sheet")
	}
	for i, line := range lines {
		if err := f.SetCellValue(instructionsSheet, "A"+strconv.Itoa(i+1), line); err != nil {
			return err
		}
	}
	return f.SetColWidth(instructionsSheet, "A", "A", 110)
}

func itrLabel(p models.TestPack) string {
	switch {
	case p.ITR != nil:
		return p.ITR.Name
	case p.ITRID != nil:
		return strconv.FormatUint(uint64(*p.ITRID), 10)
	}
	return ""
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// ParseDate accepts ISO dates and day-first Spanish dates.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, "02/01/2006", "2/1/2006", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Errorf("invalid date %q", s)
}
