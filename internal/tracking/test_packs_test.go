package tracking

import (
	"completions-tracker/internal/models"
	"completions-tracker/internal/testutil"

	"github.com/pkg/errors"
)

func (s *TrackingSuite) TestDeleteTestPackRemovesTags() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A", "B", "C")
	other := testutil.TestPack(s.T(), s.db, "TP-2", nil, "D")

	s.Require().NoError(s.svc.DeleteTestPack(s.ctx, tp.ID))

	var packs, tags int64
	s.Require().NoError(s.db.Model(&models.TestPack{}).Where("id = ?", tp.ID).Count(&packs).Error)
	s.Require().NoError(s.db.Model(&models.Tag{}).Where("test_pack_id = ?", tp.ID).Count(&tags).Error)
	s.Zero(packs)
	s.Zero(tags)

	s.Len(s.reloadPack(other.ID).Tags, 1)
}

func (s *TrackingSuite) TestDeleteUnknownTestPack() {
	err := s.svc.DeleteTestPack(s.ctx, 31337)
	s.True(errors.Is(err, ErrNotFound))
}

func (s *TrackingSuite) TestCreateTestPackValidatesITR() {
	missing := uint(999)
	_, err := s.svc.CreateTestPack(s.ctx, TestPackInput{Nombre: "TP-X", ITRID: &missing})
	s.True(errors.Is(err, ErrNotFound))

	_, err = s.svc.CreateTestPack(s.ctx, TestPackInput{Nombre: "  "})
	s.True(errors.Is(err, ErrInvalidArgument))

	_, err = s.svc.CreateTestPack(s.ctx, TestPackInput{Nombre: "TP-X", Estado: "cerrado"})
	s.True(errors.Is(err, ErrInvalidArgument))

	pack, err := s.svc.CreateTestPack(s.ctx, TestPackInput{
		Sistema: " SYS-100 ", Subsistema: "SUB-101", Nombre: "TP-X", ITRID: &s.h.ITR.ID,
	})
	s.Require().NoError(err)
	s.Equal("SYS-100", pack.Sistema)
	s.Equal(models.TestPackPendiente, pack.Estado)
	s.Require().NotNil(pack.ITRID)
	s.Equal(s.h.ITR.ID, *pack.ITRID)
}

func (s *TrackingSuite) TestUpdateTestPackClearsITRWithZero() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A")
	zero := uint(0)

	pack, err := s.svc.UpdateTestPack(s.ctx, tp.ID, TestPackInput{Nombre: "TP-1b", ITRID: &zero})
	s.Require().NoError(err)
	s.Equal("TP-1b", pack.Nombre)
	s.Nil(pack.ITRID)
	s.Len(pack.Tags, 1)
}

func (s *TrackingSuite) TestListTestPacksComputesProgress() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A", "B", "C", "D")
	testutil.TestPack(s.T(), s.db, "TP-2", nil, "E")

	_, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)

	packs, err := s.svc.ListTestPacks(s.ctx, TestPackFilter{})
	s.Require().NoError(err)
	s.Require().Len(packs, 2)
	s.Equal("TP-1", packs[0].Nombre)
	s.Equal(25, packs[0].Progress)
	s.Require().NotNil(packs[0].ITR)
	s.Equal("ITR-E01", packs[0].ITR.Name)
	s.Equal(0, packs[1].Progress)

	filtered, err := s.svc.ListTestPacks(s.ctx, TestPackFilter{ITRID: s.h.ITR.ID})
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(tp.ID, filtered[0].ID)

	got, err := s.svc.GetTestPack(s.ctx, tp.ID)
	s.Require().NoError(err)
	s.Equal(25, got.Progress)
	s.Len(got.Tags, 4)
}

func (s *TrackingSuite) TestClientCannotMarkTestPackListo() {
	_, err := s.svc.CreateTestPack(s.ctx, TestPackInput{Nombre: "TP-E", Estado: models.TestPackListo})
	s.True(errors.Is(err, ErrInvalidArgument))

	var count int64
	s.Require().NoError(s.db.Model(&models.TestPack{}).Where("nombre = ?", "TP-E").Count(&count).Error)
	s.Zero(count)

	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A", "B")
	_, err = s.svc.UpdateTestPack(s.ctx, tp.ID, TestPackInput{Nombre: "TP-1", ITRID: &s.h.ITR.ID, Estado: models.TestPackListo})
	s.True(errors.Is(err, ErrInvalidArgument))
	s.Equal(models.TestPackPendiente, s.reloadPack(tp.ID).Estado)
	s.Equal(models.StatusInProgress, s.reloadITR(s.h.ITR.ID).Status)
}

func (s *TrackingSuite) TestDeletingLastPendingPackCompletesITR() {
	done := testutil.TestPack(s.T(), s.db, "TP-A", &s.h.ITR.ID, "A")
	pending := testutil.TestPack(s.T(), s.db, "TP-B", &s.h.ITR.ID, "B")

	_, err := s.svc.SetTagState(s.ctx, 0, done.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.Equal(models.StatusInProgress, s.reloadITR(s.h.ITR.ID).Status)

	s.Require().NoError(s.svc.DeleteTestPack(s.ctx, pending.ID))

	itr := s.reloadITR(s.h.ITR.ID)
	s.Equal(models.StatusComplete, itr.Status)
	s.Equal(100, itr.Progress)
}

func (s *TrackingSuite) TestDeletingOnlyPackLeavesITR() {
	tp := testutil.TestPack(s.T(), s.db, "TP-A", &s.h.ITR.ID, "A")

	s.Require().NoError(s.svc.DeleteTestPack(s.ctx, tp.ID))

	itr := s.reloadITR(s.h.ITR.ID)
	s.Equal(models.StatusInProgress, itr.Status)
	s.Zero(itr.Progress)
}

func (s *TrackingSuite) TestAttachingListoPackCompletesITR() {
	tp := testutil.TestPack(s.T(), s.db, "TP-A", nil, "A")
	_, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	s.Equal(models.TestPackListo, s.reloadPack(tp.ID).Estado)

	pack, err := s.svc.UpdateTestPack(s.ctx, tp.ID, TestPackInput{Nombre: "TP-A", ITRID: &s.h.ITR.ID})
	s.Require().NoError(err)
	s.Equal(models.TestPackListo, pack.Estado)
	s.Equal(models.StatusComplete, s.reloadITR(s.h.ITR.ID).Status)
}

func (s *TrackingSuite) TestDetachingPendingPackCompletesPreviousITR() {
	done := testutil.TestPack(s.T(), s.db, "TP-A", &s.h.ITR.ID, "A")
	pending := testutil.TestPack(s.T(), s.db, "TP-B", &s.h.ITR.ID, "B")
	_, err := s.svc.SetTagState(s.ctx, 0, done.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)

	zero := uint(0)
	_, err = s.svc.UpdateTestPack(s.ctx, pending.ID, TestPackInput{Nombre: "TP-B", ITRID: &zero})
	s.Require().NoError(err)

	s.Equal(models.StatusComplete, s.reloadITR(s.h.ITR.ID).Status)
	s.Equal(models.TestPackPendiente, s.reloadPack(pending.ID).Estado)
}
