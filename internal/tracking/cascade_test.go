package tracking

import (
	"completions-tracker/internal/models"
	"completions-tracker/internal/testutil"

	"github.com/pkg/errors"
)

func (s *TrackingSuite) TestReleaseScenario() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A", "B")

	upd, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.Equal(50, upd.Cascade.Progress)
	s.Equal(models.TestPackPendiente, upd.Cascade.Estado)
	s.False(upd.Cascade.TestPackPromoted)
	s.Equal(models.TestPackPendiente, s.reloadPack(tp.ID).Estado)

	upd, err = s.svc.SetTagState(s.ctx, 0, tp.Tags[1].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.Equal(100, upd.Cascade.Progress)
	s.Equal(models.TestPackListo, upd.Cascade.Estado)
	s.True(upd.Cascade.TestPackPromoted)
	s.Equal(models.TestPackListo, s.reloadPack(tp.ID).Estado)
}

func (s *TrackingSuite) TestRevertDoesNotDemote() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A")

	_, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.Equal(models.TestPackListo, s.reloadPack(tp.ID).Estado)
	s.Equal(models.StatusComplete, s.reloadITR(s.h.ITR.ID).Status)

	upd, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagPendiente)
	s.Require().NoError(err)
	s.Equal(0, upd.Cascade.Progress)
	s.Equal(models.TestPackListo, upd.Cascade.Estado)
	s.Equal(models.TestPackListo, s.reloadPack(tp.ID).Estado)
	s.Equal(models.StatusComplete, s.reloadITR(s.h.ITR.ID).Status)
}

func (s *TrackingSuite) TestITRWaitsForAllPacks() {
	tp1 := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A")
	tp2 := testutil.TestPack(s.T(), s.db, "TP-2", &s.h.ITR.ID, "B")

	upd, err := s.svc.SetTagState(s.ctx, 0, tp1.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.True(upd.Cascade.TestPackPromoted)
	s.False(upd.Cascade.ITRPromoted)
	s.Equal(models.StatusInProgress, s.reloadITR(s.h.ITR.ID).Status)

	upd, err = s.svc.SetTagState(s.ctx, 0, tp2.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.True(upd.Cascade.ITRPromoted)

	itr := s.reloadITR(s.h.ITR.ID)
	s.Equal(models.StatusComplete, itr.Status)
	s.Equal(100, itr.Progress)
}

func (s *TrackingSuite) TestPackWithoutITRStopsAtPack() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil, "A")

	upd, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.True(upd.Cascade.TestPackPromoted)
	s.False(upd.Cascade.ITRPromoted)
	s.Nil(upd.Cascade.ITRID)
	s.Equal(models.StatusInProgress, s.reloadITR(s.h.ITR.ID).Status)
}

func (s *TrackingSuite) TestEmptyPackIsNeverPromoted() {
	tp := testutil.TestPack(s.T(), s.db, "TP-vacio", &s.h.ITR.ID)

	res, err := s.svc.RunCascade(s.ctx, tp.ID)
	s.Require().NoError(err)
	s.Equal(0, res.Progress)
	s.False(res.TestPackPromoted)
	s.Equal(models.TestPackPendiente, s.reloadPack(tp.ID).Estado)
}

func (s *TrackingSuite) TestCascadeIsIdempotent() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A")
	_, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)

	res, err := s.svc.RunCascade(s.ctx, tp.ID)
	s.Require().NoError(err)
	s.False(res.TestPackPromoted)
	s.False(res.ITRPromoted)
	s.Equal(models.TestPackListo, res.Estado)
}

func (s *TrackingSuite) TestCascadeUnknownPack() {
	_, err := s.svc.RunCascade(s.ctx, 9999)
	s.True(errors.Is(err, ErrNotFound))
}
