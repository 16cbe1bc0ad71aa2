package database

import (
	"completions-tracker/internal/models"

	"gorm.io/gorm"
)

// CreateAuditLog appends one row to the action trail. userID 0 means the
// change did not come from a logged-in user (CLI imports).
func CreateAuditLog(db *gorm.DB, userID uint, entity string, entityID uint, action models.LogAction, details string) error {
	return db.Create(newLog(userID, entity, entityID, action, details)).Error
}

// CreateActionLog records a tag action, keeping the tag name so the entry
// survives the tag's deletion.
func CreateActionLog(db *gorm.DB, userID uint, tag models.Tag, action models.LogAction, details string) error {
	record := newLog(userID, models.EntityTag, tag.ID, action, details)
	record.TagID = tag.ID
	record.TagName = tag.TagName
	return db.Create(record).Error
}

func newLog(userID uint, entity string, entityID uint, action models.LogAction, details string) *models.ActionLog {
	record := &models.ActionLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if userID != 0 {
		record.UserID = &userID
	}
	return record
}
