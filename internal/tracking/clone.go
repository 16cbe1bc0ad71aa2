package tracking

import (
	"context"

	"completions-tracker/internal/logger"
	"completions-tracker/internal/models"

	"github.com/pkg/errors"
)

type CloneResult struct {
	Created []models.ITR `json:"created"`
	// subsystems that already had an ITR with the same name
	Skipped []uint `json:"skipped"`
}

// CloneITR copies an ITR onto each target subsystem as new, not yet
// started work. Writes are sequential; a failure leaves earlier copies in
// place.
func (s *Service) CloneITR(ctx context.Context, itrID uint, subsystemIDs []uint) (*CloneResult, error) {
	if len(subsystemIDs) == 0 {
		return nil, invalid("at least one target subsystem is required")
	}

	db := s.db.WithContext(ctx)

	var src models.ITR
	if err := db.First(&src, itrID).Error; err != nil {
		return nil, lookupErr(err, "ITR")
	}

	var found int64
	targets := dedupe(subsystemIDs)
	if err := db.Model(&models.Subsystem{}).Where("id IN ?", targets).Count(&found).Error; err != nil {
		return nil, errors.Wrap(err, "failed to check subsystems")
	}
	if int(found) != len(targets) {
		return nil, invalid("unknown target subsystem")
	}

	res := &CloneResult{Created: []models.ITR{}, Skipped: []uint{}}
	for _, subID := range targets {
		var dup int64
		if err := db.Model(&models.ITR{}).
			Where("subsystem_id = ? AND name = ?", subID, src.Name).
			Count(&dup).Error; err != nil {
			return res, errors.Wrap(err, "failed to check ITR name")
		}
		if dup > 0 {
			res.Skipped = append(res.Skipped, subID)
			continue
		}

		clone := models.ITR{
			SubsystemID: subID,
			Name:        src.Name,
			Status:      models.StatusInProgress,
			Progress:    0,
			AssignedTo:  src.AssignedTo,
			Quantity:    src.Quantity,
			StartDate:   src.StartDate,
			DueDate:     src.DueDate,
		}
		if err := db.Create(&clone).Error; err != nil {
			return res, errors.Wrapf(err, "failed to clone ITR into subsystem %d", subID)
		}
		res.Created = append(res.Created, clone)
	}

	logger.Info("ITR cloned", "itr_id", src.ID, "created", len(res.Created), "skipped", len(res.Skipped))
	return res, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
