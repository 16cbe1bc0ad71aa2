package tracking

import (
	"completions-tracker/internal/testutil"
)

func (s *TrackingSuite) TestITRSheet() {
	other := testutil.Subsystem(s.T(), s.db, s.h.System.ID, "SUB-102")
	testutil.ITR(s.T(), s.db, other.ID, "ITR-A01")

	itrs, names, err := s.svc.ITRSheet(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(itrs, 2)
	s.Equal("SUB-101", names[s.h.Subsystem.ID])
	s.Equal("SUB-102", names[other.ID])

	itrs, _, err = s.svc.ITRSheet(s.ctx, other.ID)
	s.Require().NoError(err)
	s.Require().Len(itrs, 1)
	s.Equal("ITR-A01", itrs[0].Name)
}
