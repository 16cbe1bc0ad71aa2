package tracking

import (
	"context"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CascadeResult reports what RunCascade saw and changed.
type CascadeResult struct {
	TestPackID       uint                 `json:"test_pack_id"`
	Progress         int                  `json:"progress"`
	Estado           models.TestPackState `json:"estado"`
	TestPackPromoted bool                 `json:"test_pack_promoted"`
	ITRID            *uint                `json:"itr_id,omitempty"`
	ITRPromoted      bool                 `json:"itr_promoted"`
}

// RunCascade re-evaluates a test pack after one of its tags changed.
// When every tag is liberado the pack becomes listo, and when every pack
// of the referenced ITR is listo the ITR becomes complete. It only ever
// promotes: a reverted tag leaves pack and ITR as they are.
//
// The reads and writes are sequential and not wrapped in a transaction,
// so two concurrent tag updates on the same pack can both read a stale
// tag set.
func (s *Service) RunCascade(ctx context.Context, testPackID uint) (*CascadeResult, error) {
	db := s.db.WithContext(ctx)

	var pack models.TestPack
	if err := db.First(&pack, testPackID).Error; err != nil {
		return nil, lookupErr(err, "test pack")
	}

	var tags []models.Tag
	if err := db.Where("test_pack_id = ?", pack.ID).Find(&tags).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load tags")
	}

	res := &CascadeResult{
		TestPackID: pack.ID,
		Progress:   Progress(tags),
		Estado:     pack.Estado,
		ITRID:      pack.ITRID,
	}

	if AllReleased(tags) && pack.Estado != models.TestPackListo {
		if err := db.Model(&models.TestPack{}).
			Where("id = ?", pack.ID).
			Update("estado", models.TestPackListo).Error; err != nil {
			return nil, errors.Wrap(err, "failed to mark test pack listo")
		}
		res.Estado = models.TestPackListo
		res.TestPackPromoted = true
		logger.Info("test pack listo", "test_pack_id", pack.ID, "nombre", pack.Nombre)
	}

	if res.Estado != models.TestPackListo || pack.ITRID == nil {
		return res, nil
	}

	promoted, err := s.promoteITR(db, *pack.ITRID)
	if err != nil {
		return nil, err
	}
	res.ITRPromoted = promoted
	return res, nil
}

// promoteITR marks the ITR complete once it has packs and all of them
// are listo.
func (s *Service) promoteITR(db *gorm.DB, itrID uint) (bool, error) {
	var itr models.ITR
	if err := db.First(&itr, itrID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("test pack references missing ITR", "itr_id", itrID)
			return false, nil
		}
		return false, errors.Wrap(err, "failed to load ITR")
	}

	var total, listo int64
	if err := db.Model(&models.TestPack{}).
		Where("itr_asociado = ?", itrID).
		Count(&total).Error; err != nil {
		return false, errors.Wrap(err, "failed to count test packs")
	}
	if err := db.Model(&models.TestPack{}).
		Where("itr_asociado = ? AND estado = ?", itrID, models.TestPackListo).
		Count(&listo).Error; err != nil {
		return false, errors.Wrap(err, "failed to count listo test packs")
	}
	// an ITR left without packs is not complete
	if total == 0 || listo < total {
		return false, nil
	}

	if itr.Status == models.StatusComplete && itr.Progress == 100 {
		return false, nil
	}

	if err := db.Model(&models.ITR{}).
		Where("id = ?", itr.ID).
		Updates(map[string]interface{}{
			"status":   models.StatusComplete,
			"progress": 100,
		}).Error; err != nil {
		return false, errors.Wrap(err, "failed to mark ITR complete")
	}

	logger.Info("ITR complete", "itr_id", itr.ID, "name", itr.Name)
	return true, nil
}
