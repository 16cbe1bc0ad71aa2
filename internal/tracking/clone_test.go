package tracking

import (
	"completions-tracker/internal/models"
	"completions-tracker/internal/testutil"

	"github.com/pkg/errors"
)

func (s *TrackingSuite) TestCloneITR() {
	s.Require().NoError(s.db.Model(&s.h.ITR).Updates(map[string]interface{}{
		"status": models.StatusComplete, "progress": 100,
	}).Error)

	a := testutil.Subsystem(s.T(), s.db, s.h.System.ID, "SUB-102")
	b := testutil.Subsystem(s.T(), s.db, s.h.System.ID, "SUB-103")

	res, err := s.svc.CloneITR(s.ctx, s.h.ITR.ID, []uint{a.ID, b.ID, a.ID, s.h.Subsystem.ID})
	s.Require().NoError(err)
	s.Require().Len(res.Created, 2)
	s.Equal([]uint{s.h.Subsystem.ID}, res.Skipped)

	for _, c := range res.Created {
		s.Equal("ITR-E01", c.Name)
		s.Equal(models.StatusInProgress, c.Status)
		s.Zero(c.Progress)
		s.Equal(3, c.Quantity)
		s.Equal("J. Pérez", c.AssignedTo)
	}

	res, err = s.svc.CloneITR(s.ctx, s.h.ITR.ID, []uint{a.ID})
	s.Require().NoError(err)
	s.Empty(res.Created)
	s.Equal([]uint{a.ID}, res.Skipped)
}

func (s *TrackingSuite) TestCloneITRValidation() {
	_, err := s.svc.CloneITR(s.ctx, s.h.ITR.ID, nil)
	s.True(errors.Is(err, ErrInvalidArgument))

	_, err = s.svc.CloneITR(s.ctx, s.h.ITR.ID, []uint{12345})
	s.True(errors.Is(err, ErrInvalidArgument))

	_, err = s.svc.CloneITR(s.ctx, 12345, []uint{s.h.Subsystem.ID})
	s.True(errors.Is(err, ErrNotFound))
}
