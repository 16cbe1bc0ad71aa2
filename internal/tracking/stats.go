package tracking

import (
	"context"
	"fmt"
	"sort"

	"completions-tracker/internal/models"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const noITRKey = "sin-itr"

// GroupStat is one bar of a dashboard chart.
type GroupStat struct {
	Key            string `json:"key"`
	Name           string `json:"name"`
	TotalPacks     int    `json:"total_packs"`
	CompletedPacks int    `json:"completed_packs"`
	TotalTags      int    `json:"total_tags"`
	ReleasedTags   int    `json:"released_tags"`
	Percentage     int    `json:"percentage"`
}

type TestPackStats struct {
	BySystem    []GroupStat `json:"by_system"`
	BySubsystem []GroupStat `json:"by_subsystem"`
	ByITR       []GroupStat `json:"by_itr"`
}

// TestPackStats groups every test pack by system, subsystem and ITR.
// Nothing is cached: the whole table is read on every call.
func (s *Service) TestPackStats(ctx context.Context) (*TestPackStats, error) {
	packs, err := s.ListTestPacks(ctx, TestPackFilter{})
	if err != nil {
		return nil, err
	}
	return GroupTestPacks(packs), nil
}

// GroupTestPacks is the pure part of TestPackStats. Packs must carry their
// tags and, for ITR labels, their ITR.
func GroupTestPacks(packs []models.TestPack) *TestPackStats {
	systems := newGrouper()
	subsystems := newGrouper()
	itrs := newGrouper()

	for _, p := range packs {
		systems.add(p.Sistema, p.Sistema, p)
		subsystems.add(p.Sistema+"/"+p.Subsistema, p.Sistema+" / "+p.Subsistema, p)

		switch {
		case p.ITRID == nil:
			itrs.add(noITRKey, "Sin ITR", p)
		case p.ITR != nil:
			itrs.add(fmt.Sprintf("itr-%d", *p.ITRID), p.ITR.Name, p)
		default:
			itrs.add(fmt.Sprintf("itr-%d", *p.ITRID), fmt.Sprintf("ITR %d", *p.ITRID), p)
		}
	}

	return &TestPackStats{
		BySystem:    systems.result(),
		BySubsystem: subsystems.result(),
		ByITR:       itrs.result(),
	}
}

type grouper struct {
	groups map[string]*GroupStat
}

func newGrouper() *grouper {
	return &grouper{groups: make(map[string]*GroupStat)}
}

func (g *grouper) add(key, name string, p models.TestPack) {
	st, ok := g.groups[key]
	if !ok {
		st = &GroupStat{Key: key, Name: name}
		g.groups[key] = st
	}
	st.TotalPacks++
	if p.Estado == models.TestPackListo {
		st.CompletedPacks++
	}
	st.TotalTags += len(p.Tags)
	st.ReleasedTags += countReleased(p.Tags)
}

func (g *grouper) result() []GroupStat {
	out := make([]GroupStat, 0, len(g.groups))
	for _, st := range g.groups {
		st.Percentage = percent(st.CompletedPacks, st.TotalPacks)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Overview holds the dashboard counters.
type Overview struct {
	Projects         int64                   `json:"projects"`
	ProjectsByStatus map[models.Status]int64 `json:"projects_by_status"`
	Systems          int64                   `json:"systems"`
	Subsystems       int64                   `json:"subsystems"`
	ITRs             int64                   `json:"itrs"`
	ITRsByStatus     map[models.Status]int64 `json:"itrs_by_status"`
	TestPacks        int64                   `json:"test_packs"`
	TestPacksListo   int64                   `json:"test_packs_listo"`
	Tags             int64                   `json:"tags"`
	TagsLiberados    int64                   `json:"tags_liberados"`
}

type statusCount struct {
	Status models.Status
	Total  int64
}

// Overview runs its independent count queries concurrently.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, model interface{}, where ...interface{}) {
		g.Go(func() error {
			q := s.db.WithContext(gctx).Model(model)
			if len(where) > 0 {
				q = q.Where(where[0], where[1:]...)
			}
			return q.Count(dst).Error
		})
	}
	byStatus := func(dst *map[models.Status]int64, model interface{}) {
		g.Go(func() error {
			var rows []statusCount
			if err := s.db.WithContext(gctx).Model(model).
				Select("status, count(*) as total").
				Group("status").
				Scan(&rows).Error; err != nil {
				return err
			}
			m := make(map[models.Status]int64, len(rows))
			for _, r := range rows {
				m[r.Status] = r.Total
			}
			*dst = m
			return nil
		})
	}

	count(&out.Projects, &models.Project{})
	byStatus(&out.ProjectsByStatus, &models.Project{})
	count(&out.Systems, &models.System{})
	count(&out.Subsystems, &models.Subsystem{})
	count(&out.ITRs, &models.ITR{})
	byStatus(&out.ITRsByStatus, &models.ITR{})
	count(&out.TestPacks, &models.TestPack{})
	count(&out.TestPacksListo, &models.TestPack{}, "estado = ?", models.TestPackListo)
	count(&out.Tags, &models.Tag{})
	count(&out.TagsLiberados, &models.Tag{}, "estado = ?", models.TagLiberado)

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to compute overview")
	}
	return out, nil
}

// ProjectProgressRow summarises one project for reports.
type ProjectProgressRow struct {
	ProjectID        uint          `json:"project_id"`
	Name             string        `json:"name"`
	Location         string        `json:"location"`
	Status           models.Status `json:"status"`
	Progress         int           `json:"progress"`
	Systems          int           `json:"systems"`
	SystemCompletion int           `json:"system_completion"`
	ITRTotal         int           `json:"itr_total"`
	ITRComplete      int           `json:"itr_complete"`
	ITRPercentage    int           `json:"itr_percentage"`
}

func (s *Service) ProjectProgress(ctx context.Context) ([]ProjectProgressRow, error) {
	db := s.db.WithContext(ctx)

	var (
		projects   []models.Project
		systems    []models.System
		subsystems []models.Subsystem
		itrs       []models.ITR
	)
	if err := db.Order("name asc").Find(&projects).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load projects")
	}
	if err := db.Find(&systems).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load systems")
	}
	if err := db.Find(&subsystems).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load subsystems")
	}
	if err := db.Find(&itrs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load ITRs")
	}

	systemProject := make(map[uint]uint, len(systems))
	for _, sys := range systems {
		systemProject[sys.ID] = sys.ProjectID
	}
	subsystemProject := make(map[uint]uint, len(subsystems))
	for _, sub := range subsystems {
		subsystemProject[sub.ID] = systemProject[sub.SystemID]
	}

	rows := make([]ProjectProgressRow, len(projects))
	index := make(map[uint]int, len(projects))
	rateSum := make([]int, len(projects))
	for i, p := range projects {
		index[p.ID] = i
		rows[i] = ProjectProgressRow{
			ProjectID: p.ID,
			Name:      p.Name,
			Location:  p.Location,
			Status:    p.Status,
			Progress:  p.Progress,
		}
	}

	for _, sys := range systems {
		i, ok := index[sys.ProjectID]
		if !ok {
			continue
		}
		rows[i].Systems++
		rateSum[i] += sys.CompletionRate
	}
	for _, itr := range itrs {
		i, ok := index[subsystemProject[itr.SubsystemID]]
		if !ok {
			continue
		}
		rows[i].ITRTotal++
		if itr.Status == models.StatusComplete {
			rows[i].ITRComplete++
		}
	}

	for i := range rows {
		if rows[i].Systems > 0 {
			rows[i].SystemCompletion = percent(rateSum[i], rows[i].Systems*100)
		}
		rows[i].ITRPercentage = percent(rows[i].ITRComplete, rows[i].ITRTotal)
	}
	return rows, nil
}
