package tracking

import (
	"context"
	"strings"

	"completions-tracker/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TestPackFilter struct {
	ITRID   uint
	Sistema string
	Estado  models.TestPackState
}

type TestPackInput struct {
	Sistema    string
	Subsistema string
	Nombre     string
	ITRID      *uint
	Estado     models.TestPackState
}

// ListTestPacks loads packs with their tags eagerly and fills in progress.
func (s *Service) ListTestPacks(ctx context.Context, f TestPackFilter) ([]models.TestPack, error) {
	q := s.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("ITR").
		Order("sistema asc, subsistema asc, nombre asc")

	if f.ITRID != 0 {
		q = q.Where("itr_asociado = ?", f.ITRID)
	}
	if f.Sistema != "" {
		q = q.Where("sistema = ?", f.Sistema)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}

	var packs []models.TestPack
	if err := q.Find(&packs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list test packs")
	}
	withProgress(packs)
	return packs, nil
}

func (s *Service) GetTestPack(ctx context.Context, id uint) (*models.TestPack, error) {
	var pack models.TestPack
	if err := s.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("ITR").
		First(&pack, id).Error; err != nil {
		return nil, lookupErr(err, "test pack")
	}
	pack.Progress = Progress(pack.Tags)
	return &pack, nil
}

func (s *Service) CreateTestPack(ctx context.Context, in TestPackInput) (*models.TestPack, error) {
	if err := s.validateTestPack(ctx, &in); err != nil {
		return nil, err
	}

	pack := models.TestPack{
		Sistema:    in.Sistema,
		Subsistema: in.Subsistema,
		Nombre:     in.Nombre,
		ITRID:      in.ITRID,
		Estado:     models.TestPackPendiente,
	}
	if err := s.db.WithContext(ctx).Create(&pack).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create test pack")
	}
	return &pack, nil
}

func (s *Service) UpdateTestPack(ctx context.Context, id uint, in TestPackInput) (*models.TestPack, error) {
	db := s.db.WithContext(ctx)

	var pack models.TestPack
	if err := db.First(&pack, id).Error; err != nil {
		return nil, lookupErr(err, "test pack")
	}
	if err := s.validateTestPack(ctx, &in); err != nil {
		return nil, err
	}

	previousITR := pack.ITRID
	pack.Sistema = in.Sistema
	pack.Subsistema = in.Subsistema
	pack.Nombre = in.Nombre
	pack.ITRID = in.ITRID
	if in.Estado != "" {
		pack.Estado = in.Estado
	}

	if err := db.Save(&pack).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save test pack")
	}

	// a listo pack moved onto an ITR can complete it, and the ITR it left
	// may have been waiting on this pack only
	if _, err := s.RunCascade(ctx, pack.ID); err != nil {
		return nil, err
	}
	if previousITR != nil && (pack.ITRID == nil || *pack.ITRID != *previousITR) {
		if _, err := s.promoteITR(db, *previousITR); err != nil {
			return nil, err
		}
	}
	return s.GetTestPack(ctx, pack.ID)
}

func (s *Service) validateTestPack(ctx context.Context, in *TestPackInput) error {
	in.Sistema = strings.TrimSpace(in.Sistema)
	in.Subsistema = strings.TrimSpace(in.Subsistema)
	in.Nombre = strings.TrimSpace(in.Nombre)

	if in.Nombre == "" {
		return invalid("test pack name is required")
	}
	// listo is only ever written by the cascade once every tag is released
	switch in.Estado {
	case "", models.TestPackPendiente:
	case models.TestPackListo:
		return invalid("test pack becomes listo by releasing all of its tags")
	default:
		return invalid("unknown test pack state " + string(in.Estado))
	}

	if in.ITRID != nil {
		if *in.ITRID == 0 {
			in.ITRID = nil
			return nil
		}
		var itr models.ITR
		if err := s.db.WithContext(ctx).First(&itr, *in.ITRID).Error; err != nil {
			return lookupErr(err, "ITR")
		}
	}
	return nil
}

// DeleteTestPack removes the pack and every one of its tags in a single
// transaction. It is the only multi-row write in the system that is atomic.
// Once committed, the pack's ITR is re-checked: the deleted pack may have
// been the last one still pending.
func (s *Service) DeleteTestPack(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)

	var pack models.TestPack
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pack, id).Error; err != nil {
			return lookupErr(err, "test pack")
		}
		if err := tx.Where("test_pack_id = ?", pack.ID).Delete(&models.Tag{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete tags")
		}
		if err := tx.Delete(&pack).Error; err != nil {
			return errors.Wrap(err, "failed to delete test pack")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if pack.ITRID != nil {
		if _, err := s.promoteITR(db, *pack.ITRID); err != nil {
			return err
		}
	}
	return nil
}
