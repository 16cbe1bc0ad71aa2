// Package tracking holds the completions logic that spans more than one
// table: tag release and its cascade onto test packs and ITRs, dashboard
// aggregation, bulk import and ITR cloning.
package tracking

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// lookupErr turns gorm's missing-row error into ErrNotFound.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	return errors.Wrapf(err, "failed to load %s", what)
}

func invalid(msg string) error {
	return errors.Wrap(ErrInvalidArgument, msg)
}
