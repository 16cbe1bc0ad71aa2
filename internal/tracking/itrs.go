package tracking

import (
	"context"

	"completions-tracker/internal/models"

	"github.com/pkg/errors"
)

// ITRSheet loads ITRs (all, or one subsystem's when subsystemID is set)
// together with subsystem names for the export workbook.
func (s *Service) ITRSheet(ctx context.Context, subsystemID uint) ([]models.ITR, map[uint]string, error) {
	db := s.db.WithContext(ctx)

	q := db.Order("subsystem_id asc, name asc")
	if subsystemID != 0 {
		q = q.Where("subsystem_id = ?", subsystemID)
	}
	var itrs []models.ITR
	if err := q.Find(&itrs).Error; err != nil {
		return nil, nil, errors.Wrap(err, "failed to load ITRs")
	}

	var subs []models.Subsystem
	if err := db.Select("id", "name").Find(&subs).Error; err != nil {
		return nil, nil, errors.Wrap(err, "failed to load subsystems")
	}
	names := make(map[uint]string, len(subs))
	for _, sub := range subs {
		names[sub.ID] = sub.Name
	}
	return itrs, names, nil
}
