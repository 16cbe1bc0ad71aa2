package tracking

import (
	"context"
	"strings"

	"completions-tracker/internal/database"
	"completions-tracker/internal/models"

	"github.com/pkg/errors"
)

// TagUpdate is a written tag together with the cascade it triggered.
type TagUpdate struct {
	Tag     models.Tag     `json:"tag"`
	Cascade *CascadeResult `json:"cascade"`
}

// SetTagState persists a tag's release state, logs the action and runs the
// cascade on the owning test pack. The release timestamp is stamped when
// the tag moves to liberado and cleared when it moves back to pendiente.
func (s *Service) SetTagState(ctx context.Context, userID, tagID uint, state models.TagState) (*TagUpdate, error) {
	if tagID == 0 {
		return nil, invalid("tag id is required")
	}
	if !models.ValidTagState(state) {
		return nil, invalid("unknown tag state " + string(state))
	}

	db := s.db.WithContext(ctx)

	var tag models.Tag
	if err := db.First(&tag, tagID).Error; err != nil {
		return nil, lookupErr(err, "tag")
	}

	switch {
	case state == models.TagLiberado && tag.Estado != models.TagLiberado:
		now := s.now()
		tag.FechaLiberacion = &now
	case state == models.TagPendiente:
		tag.FechaLiberacion = nil
	}
	tag.Estado = state

	if err := db.Save(&tag).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save tag")
	}

	action := models.ActionUpdated
	if state == models.TagLiberado {
		action = models.ActionReleased
	}
	if err := database.CreateActionLog(db, userID, tag, action, "Estado: "+string(state)); err != nil {
		return nil, errors.Wrap(err, "failed to write action log")
	}

	cascade, err := s.RunCascade(ctx, tag.TestPackID)
	if err != nil {
		return nil, err
	}

	return &TagUpdate{Tag: tag, Cascade: cascade}, nil
}

func (s *Service) CreateTag(ctx context.Context, userID, testPackID uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("tag name is required")
	}

	db := s.db.WithContext(ctx)

	var pack models.TestPack
	if err := db.First(&pack, testPackID).Error; err != nil {
		return nil, lookupErr(err, "test pack")
	}

	tag := models.Tag{
		TestPackID: pack.ID,
		TagName:    name,
		Estado:     models.TagPendiente,
	}
	if err := db.Create(&tag).Error; err != nil {
		return nil, errors.Wrap(err, "failed to create tag")
	}

	if err := database.CreateActionLog(db, userID, tag, models.ActionCreated, "Test pack: "+pack.Nombre); err != nil {
		return nil, errors.Wrap(err, "failed to write action log")
	}
	return &tag, nil
}

func (s *Service) RenameTag(ctx context.Context, userID, tagID uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("tag name is required")
	}

	db := s.db.WithContext(ctx)

	var tag models.Tag
	if err := db.First(&tag, tagID).Error; err != nil {
		return nil, lookupErr(err, "tag")
	}

	old := tag.TagName
	tag.TagName = name
	if err := db.Save(&tag).Error; err != nil {
		return nil, errors.Wrap(err, "failed to save tag")
	}

	if err := database.CreateActionLog(db, userID, tag, models.ActionUpdated, "Renombrado de: "+old); err != nil {
		return nil, errors.Wrap(err, "failed to write action log")
	}
	return &tag, nil
}

// DeleteTag logs the deletion first so the trail keeps the tag name, then
// re-runs the cascade: dropping the last pending tag can complete a pack.
func (s *Service) DeleteTag(ctx context.Context, userID, tagID uint) (*CascadeResult, error) {
	db := s.db.WithContext(ctx)

	var tag models.Tag
	if err := db.First(&tag, tagID).Error; err != nil {
		return nil, lookupErr(err, "tag")
	}

	if err := database.CreateActionLog(db, userID, tag, models.ActionDeleted, ""); err != nil {
		return nil, errors.Wrap(err, "failed to write action log")
	}

	if err := db.Delete(&models.Tag{}, tag.ID).Error; err != nil {
		return nil, errors.Wrap(err, "failed to delete tag")
	}

	return s.RunCascade(ctx, tag.TestPackID)
}
