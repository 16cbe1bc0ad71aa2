package tracking

import (
	"time"

	"completions-tracker/internal/models"
	"completions-tracker/internal/testutil"

	"github.com/pkg/errors"
)

func (s *TrackingSuite) TestSetTagStateStampsAndClearsRelease() {
	user := testutil.User(s.T(), s.db, "tec@obra.local", "secreto1", models.RoleTecnico)
	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil, "A", "B")
	tagID := tp.Tags[0].ID

	upd, err := s.svc.SetTagState(s.ctx, user.ID, tagID, models.TagLiberado)
	s.Require().NoError(err)
	s.Equal(models.TagLiberado, upd.Tag.Estado)
	s.Require().NotNil(upd.Tag.FechaLiberacion)
	s.True(fixedNow.Equal(*upd.Tag.FechaLiberacion))

	_, err = s.svc.SetTagState(s.ctx, user.ID, tagID, models.TagPendiente)
	s.Require().NoError(err)

	var tag models.Tag
	s.Require().NoError(s.db.First(&tag, tagID).Error)
	s.Equal(models.TagPendiente, tag.Estado)
	s.Nil(tag.FechaLiberacion)

	logs := s.actionLogs(tagID)
	s.Require().Len(logs, 2)
	s.Equal(models.ActionReleased, logs[0].Action)
	s.Equal(models.ActionUpdated, logs[1].Action)
	s.Require().NotNil(logs[0].UserID)
	s.Equal(user.ID, *logs[0].UserID)
	s.Equal("A", logs[0].TagName)
}

func (s *TrackingSuite) TestReleasingTwiceKeepsFirstStamp() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil, "A", "B")
	tagID := tp.Tags[0].ID

	_, err := s.svc.SetTagState(s.ctx, 0, tagID, models.TagLiberado)
	s.Require().NoError(err)

	later := fixedNow.Add(48 * time.Hour)
	s.svc.now = func() time.Time { return later }

	upd, err := s.svc.SetTagState(s.ctx, 0, tagID, models.TagLiberado)
	s.Require().NoError(err)
	s.True(fixedNow.Equal(*upd.Tag.FechaLiberacion))
	s.Len(s.actionLogs(tagID), 2)
}

func (s *TrackingSuite) TestSetTagStateRejectsBadInput() {
	_, err := s.svc.SetTagState(s.ctx, 0, 0, models.TagLiberado)
	s.True(errors.Is(err, ErrInvalidArgument))

	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil, "A")
	_, err = s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagState("aprobado"))
	s.True(errors.Is(err, ErrInvalidArgument))

	_, err = s.svc.SetTagState(s.ctx, 0, 4242, models.TagLiberado)
	s.True(errors.Is(err, ErrNotFound))
	s.Empty(s.actionLogs(4242))
}

func (s *TrackingSuite) TestCreateRenameDeleteTagAreLogged() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil, "A")

	tag, err := s.svc.CreateTag(s.ctx, 0, tp.ID, "  B  ")
	s.Require().NoError(err)
	s.Equal("B", tag.TagName)
	s.Equal(models.TagPendiente, tag.Estado)

	tag, err = s.svc.RenameTag(s.ctx, 0, tag.ID, "B-2")
	s.Require().NoError(err)
	s.Equal("B-2", tag.TagName)

	_, err = s.svc.DeleteTag(s.ctx, 0, tag.ID)
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&count).Error)
	s.Zero(count)

	logs := s.actionLogs(tag.ID)
	s.Require().Len(logs, 3)
	s.Equal(models.ActionCreated, logs[0].Action)
	s.Equal(models.ActionUpdated, logs[1].Action)
	s.Equal(models.ActionDeleted, logs[2].Action)
	s.Equal("B-2", logs[2].TagName)
}

func (s *TrackingSuite) TestCreateTagValidation() {
	_, err := s.svc.CreateTag(s.ctx, 0, 777, "A")
	s.True(errors.Is(err, ErrNotFound))

	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil)
	_, err = s.svc.CreateTag(s.ctx, 0, tp.ID, "   ")
	s.True(errors.Is(err, ErrInvalidArgument))
}

func (s *TrackingSuite) TestDeletingLastPendingTagCompletesPack() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A", "B")

	_, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)

	res, err := s.svc.DeleteTag(s.ctx, 0, tp.Tags[1].ID)
	s.Require().NoError(err)
	s.True(res.TestPackPromoted)
	s.True(res.ITRPromoted)
	s.Equal(100, res.Progress)
}
