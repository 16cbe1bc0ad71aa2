package tracking

import (
	"context"
	"fmt"
	"strconv"

	"completions-tracker/internal/database"
	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"
	"completions-tracker/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult is returned even when a write fails halfway: rows created
// before the failure stay in the store.
type ImportResult struct {
	BatchID string     `json:"batch_id"`
	Entity  string     `json:"entity"`
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors,omitempty"`
}

func newImportResult(entity string) *ImportResult {
	return &ImportResult{BatchID: uuid.NewString(), Entity: entity}
}

func (r *ImportResult) rowError(line int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, RowError{Line: line, Message: fmt.Sprintf(format, args...)})
}

// ImportTags creates one tag per row in the given pack, one insert at a
// time. Names are not checked, so importing the same file twice duplicates
// the tags. The cascade runs once after the last row.
func (s *Service) ImportTags(ctx context.Context, userID, testPackID uint, rows []spreadsheet.Row) (*ImportResult, error) {
	res := newImportResult(spreadsheet.EntityTags)
	db := s.db.WithContext(ctx)

	var pack models.TestPack
	if err := db.First(&pack, testPackID).Error; err != nil {
		return res, lookupErr(err, "test pack")
	}

	for _, row := range rows {
		name := row.Get("tag_name", "tag", "nombre")
		if name == "" {
			res.rowError(row.Line, "falta tag_name")
			continue
		}

		state := models.TagState(row.Get("estado"))
		if state == "" {
			state = models.TagPendiente
		}
		if !models.ValidTagState(state) {
			res.rowError(row.Line, "estado inválido: %s", state)
			continue
		}

		tag := models.Tag{TestPackID: pack.ID, TagName: name, Estado: state}
		if state == models.TagLiberado {
			now := s.now()
			tag.FechaLiberacion = &now
		}
		if err := db.Create(&tag).Error; err != nil {
			return res, errors.Wrapf(err, "failed to create tag on line %d", row.Line)
		}
		if err := database.CreateActionLog(db, userID, tag, models.ActionCreated, "Importación "+res.BatchID); err != nil {
			return res, errors.Wrapf(err, "failed to write action log on line %d", row.Line)
		}
		res.Created++
	}

	if res.Created > 0 {
		if _, err := s.RunCascade(ctx, pack.ID); err != nil {
			return res, err
		}
	}

	logger.Info("tags imported", "batch_id", res.BatchID, "test_pack_id", pack.ID,
		"created", res.Created, "errors", len(res.Errors))
	return res, nil
}

// ImportTestPacks skips rows whose nombre already exists.
func (s *Service) ImportTestPacks(ctx context.Context, rows []spreadsheet.Row) (*ImportResult, error) {
	res := newImportResult(spreadsheet.EntityTestPacks)
	db := s.db.WithContext(ctx)

	for _, row := range rows {
		nombre := row.Get("nombre", "name", "test_pack")
		if nombre == "" {
			res.rowError(row.Line, "falta nombre")
			continue
		}

		var existing int64
		if err := db.Model(&models.TestPack{}).Where("nombre = ?", nombre).Count(&existing).Error; err != nil {
			return res, errors.Wrapf(err, "failed to check test pack on line %d", row.Line)
		}
		if existing > 0 {
			res.Skipped++
			continue
		}

		itrID, msg, err := s.resolveITR(ctx, row.Get("itr_asociado", "itr"))
		if err != nil {
			return res, errors.Wrapf(err, "line %d", row.Line)
		}
		if msg != "" {
			res.rowError(row.Line, "%s", msg)
			continue
		}

		pack := models.TestPack{
			Sistema:    row.Get("sistema"),
			Subsistema: row.Get("subsistema"),
			Nombre:     nombre,
			ITRID:      itrID,
			Estado:     models.TestPackPendiente,
		}
		if err := db.Create(&pack).Error; err != nil {
			return res, errors.Wrapf(err, "failed to create test pack on line %d", row.Line)
		}
		res.Created++
	}

	logger.Info("test packs imported", "batch_id", res.BatchID,
		"created", res.Created, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

// resolveITR turns an itr_asociado cell into an ITR id. Numbers are ids;
// anything else must match exactly one ITR name. A reference that cannot
// be resolved comes back as a row message; err is kept for store failures.
func (s *Service) resolveITR(ctx context.Context, ref string) (*uint, string, error) {
	if ref == "" {
		return nil, "", nil
	}
	db := s.db.WithContext(ctx)

	if n, err := strconv.ParseUint(ref, 10, 64); err == nil {
		var itr models.ITR
		if err := db.First(&itr, uint(n)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Sprintf("ITR %s no encontrado", ref), nil
			}
			return nil, "", errors.Wrap(err, "failed to look up ITR")
		}
		return &itr.ID, "", nil
	}

	var itrs []models.ITR
	if err := db.Where("name = ?", ref).Limit(2).Find(&itrs).Error; err != nil {
		return nil, "", errors.Wrap(err, "failed to look up ITR")
	}
	switch len(itrs) {
	case 0:
		return nil, fmt.Sprintf("ITR %q no encontrado", ref), nil
	case 1:
		return &itrs[0].ID, "", nil
	default:
		return nil, fmt.Sprintf("ITR %q es ambiguo, use el ID", ref), nil
	}
}

// ImportITRs creates ITRs row by row. subsystemID, when non-zero, overrides
// the subsystem_id column. Rows whose name already exists in the target
// subsystem are skipped.
func (s *Service) ImportITRs(ctx context.Context, subsystemID uint, rows []spreadsheet.Row) (*ImportResult, error) {
	res := newImportResult(spreadsheet.EntityITRs)
	db := s.db.WithContext(ctx)
	known := make(map[uint]bool)

	for _, row := range rows {
		itr, msg := itrFromRow(row, subsystemID)
		if msg != "" {
			res.rowError(row.Line, "%s", msg)
			continue
		}

		exists, checked := known[itr.SubsystemID]
		if !checked {
			var sub models.Subsystem
			err := db.First(&sub, itr.SubsystemID).Error
			exists = err == nil
			known[itr.SubsystemID] = exists
		}
		if !exists {
			res.rowError(row.Line, "subsistema %d no encontrado", itr.SubsystemID)
			continue
		}

		var dup int64
		if err := db.Model(&models.ITR{}).
			Where("subsystem_id = ? AND name = ?", itr.SubsystemID, itr.Name).
			Count(&dup).Error; err != nil {
			return res, errors.Wrapf(err, "failed to check ITR on line %d", row.Line)
		}
		if dup > 0 {
			res.Skipped++
			continue
		}

		if err := db.Create(itr).Error; err != nil {
			return res, errors.Wrapf(err, "failed to create ITR on line %d", row.Line)
		}
		res.Created++
	}

	logger.Info("ITRs imported", "batch_id", res.BatchID,
		"created", res.Created, "skipped", res.Skipped, "errors", len(res.Errors))
	return res, nil
}

func itrFromRow(row spreadsheet.Row, subsystemID uint) (*models.ITR, string) {
	itr := &models.ITR{
		SubsystemID: subsystemID,
		Name:        row.Get("name", "nombre", "itr"),
		Status:      models.Status(row.Get("status", "estado")),
		AssignedTo:  row.Get("assigned_to", "asignado_a"),
		Quantity:    1,
	}

	if itr.SubsystemID == 0 {
		n, err := strconv.ParseUint(row.Get("subsystem_id"), 10, 64)
		if err != nil || n == 0 {
			return nil, "falta subsystem_id"
		}
		itr.SubsystemID = uint(n)
	}
	if itr.Name == "" {
		return nil, "falta name"
	}

	if itr.Status == "" {
		itr.Status = models.StatusInProgress
	}
	if !models.ValidStatus(itr.Status) {
		return nil, "status inválido: " + string(itr.Status)
	}

	if v := row.Get("progress", "progreso"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 100 {
			return nil, "progress inválido: " + v
		}
		itr.Progress = p
	}
	if v := row.Get("quantity", "cantidad"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 0 {
			return nil, "quantity inválido: " + v
		}
		itr.Quantity = q
	}

	var err error
	if itr.StartDate, err = spreadsheet.ParseDate(row.Get("start_date", "fecha_inicio")); err != nil {
		return nil, err.Error()
	}
	if itr.DueDate, err = spreadsheet.ParseDate(row.Get("due_date", "fecha_limite")); err != nil {
		return nil, err.Error()
	}
	return itr, ""
}
