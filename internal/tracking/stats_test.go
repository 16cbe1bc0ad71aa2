package tracking

import (
	"testing"

	"completions-tracker/internal/models"
	"completions-tracker/internal/testutil"

	"github.com/google/go-cmp/cmp"
)

func TestGroupTestPacks(t *testing.T) {
	itrID := uint(7)
	itr := &models.ITR{ID: itrID, Name: "ITR-E01"}

	packs := []models.TestPack{
		{Sistema: "SYS-100", Subsistema: "SUB-101", Estado: models.TestPackListo, ITRID: &itrID, ITR: itr,
			Tags: tags(models.TagLiberado, models.TagLiberado)},
		{Sistema: "SYS-100", Subsistema: "SUB-102", Estado: models.TestPackPendiente, ITRID: &itrID, ITR: itr,
			Tags: tags(models.TagLiberado, models.TagPendiente)},
		{Sistema: "SYS-200", Subsistema: "SUB-201", Estado: models.TestPackPendiente},
	}

	got := GroupTestPacks(packs)

	want := &TestPackStats{
		BySystem: []GroupStat{
			{Key: "SYS-100", Name: "SYS-100", TotalPacks: 2, CompletedPacks: 1, TotalTags: 4, ReleasedTags: 3, Percentage: 50},
			{Key: "SYS-200", Name: "SYS-200", TotalPacks: 1},
		},
		BySubsystem: []GroupStat{
			{Key: "SYS-100/SUB-101", Name: "SYS-100 / SUB-101", TotalPacks: 1, CompletedPacks: 1, TotalTags: 2, ReleasedTags: 2, Percentage: 100},
			{Key: "SYS-100/SUB-102", Name: "SYS-100 / SUB-102", TotalPacks: 1, TotalTags: 2, ReleasedTags: 1},
			{Key: "SYS-200/SUB-201", Name: "SYS-200 / SUB-201", TotalPacks: 1},
		},
		ByITR: []GroupStat{
			{Key: "itr-7", Name: "ITR-E01", TotalPacks: 2, CompletedPacks: 1, TotalTags: 4, ReleasedTags: 3, Percentage: 50},
			{Key: noITRKey, Name: "Sin ITR", TotalPacks: 1},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GroupTestPacks mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupTestPacksEmpty(t *testing.T) {
	got := GroupTestPacks(nil)
	if len(got.BySystem) != 0 || len(got.BySubsystem) != 0 || len(got.ByITR) != 0 {
		t.Fatalf("expected empty groups, got %+v", got)
	}
}

func (s *TrackingSuite) TestOverview() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A", "B")
	testutil.TestPack(s.T(), s.db, "TP-2", nil, "C")
	_, err := s.svc.SetTagState(s.ctx, 0, tp.Tags[0].ID, models.TagLiberado)
	s.Require().NoError(err)
	_, err = s.svc.SetTagState(s.ctx, 0, tp.Tags[1].ID, models.TagLiberado)
	s.Require().NoError(err)

	ov, err := s.svc.Overview(s.ctx)
	s.Require().NoError(err)

	s.Equal(int64(1), ov.Projects)
	s.Equal(int64(1), ov.ProjectsByStatus[models.StatusInProgress])
	s.Equal(int64(1), ov.Systems)
	s.Equal(int64(1), ov.Subsystems)
	s.Equal(int64(1), ov.ITRs)
	s.Equal(int64(1), ov.ITRsByStatus[models.StatusComplete])
	s.Equal(int64(2), ov.TestPacks)
	s.Equal(int64(1), ov.TestPacksListo)
	s.Equal(int64(3), ov.Tags)
	s.Equal(int64(2), ov.TagsLiberados)
}

func (s *TrackingSuite) TestTestPackStatsReadsStore() {
	testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID, "A")

	st, err := s.svc.TestPackStats(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(st.ByITR, 1)
	s.Equal("ITR-E01", st.ByITR[0].Name)
	s.Equal(1, st.ByITR[0].TotalTags)
}

func (s *TrackingSuite) TestProjectProgress() {
	sys2 := testutil.System(s.T(), s.db, s.h.Project.ID, "SYS-200", 80)
	sub2 := testutil.Subsystem(s.T(), s.db, sys2.ID, "SUB-201")
	done := testutil.ITR(s.T(), s.db, sub2.ID, "ITR-M01")
	s.Require().NoError(s.db.Model(&done).Update("status", models.StatusComplete).Error)
	testutil.Project(s.T(), s.db, "Ampliación Terminal")

	rows, err := s.svc.ProjectProgress(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	s.Equal("Ampliación Terminal", rows[0].Name)
	s.Zero(rows[0].Systems)
	s.Zero(rows[0].ITRPercentage)

	p := rows[1]
	s.Equal("Planta Compresora", p.Name)
	s.Equal(2, p.Systems)
	s.Equal(60, p.SystemCompletion)
	s.Equal(2, p.ITRTotal)
	s.Equal(1, p.ITRComplete)
	s.Equal(50, p.ITRPercentage)
}
