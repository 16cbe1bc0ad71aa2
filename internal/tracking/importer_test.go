package tracking

import (
	"strconv"
	"strings"

	"completions-tracker/internal/models"
	"completions-tracker/internal/spreadsheet"
	"completions-tracker/internal/testutil"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *TrackingSuite) parseCSV(body string) []spreadsheet.Row {
	rows, err := spreadsheet.ParseCSV(strings.NewReader(body))
	s.Require().NoError(err)
	return rows
}

func (s *TrackingSuite) TestImportTagsTwiceDuplicates() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", nil)
	rows := s.parseCSV("tag_name,estado\nPT-001,\nPT-002,liberado\n,pendiente\nPT-003,roto\n")

	res, err := s.svc.ImportTags(s.ctx, 0, tp.ID, rows)
	s.Require().NoError(err)
	s.Equal(2, res.Created)
	s.Require().Len(res.Errors, 2)
	s.Equal(4, res.Errors[0].Line)
	s.Equal(5, res.Errors[1].Line)
	s.NotEmpty(res.BatchID)

	res, err = s.svc.ImportTags(s.ctx, 0, tp.ID, rows)
	s.Require().NoError(err)
	s.Equal(2, res.Created)

	pack := s.reloadPack(tp.ID)
	s.Len(pack.Tags, 4)

	var created int64
	s.Require().NoError(s.db.Model(&models.ActionLog{}).Where("action = ?", models.ActionCreated).Count(&created).Error)
	s.Equal(int64(4), created)
}

func (s *TrackingSuite) TestImportTagsRunsCascade() {
	tp := testutil.TestPack(s.T(), s.db, "TP-1", &s.h.ITR.ID)
	rows := s.parseCSV("tag_name,estado\nPT-001,liberado\nPT-002,liberado\n")

	_, err := s.svc.ImportTags(s.ctx, 0, tp.ID, rows)
	s.Require().NoError(err)
	s.Equal(models.TestPackListo, s.reloadPack(tp.ID).Estado)
	s.Equal(models.StatusComplete, s.reloadITR(s.h.ITR.ID).Status)
}

func (s *TrackingSuite) TestImportTagsUnknownPack() {
	_, err := s.svc.ImportTags(s.ctx, 0, 404, s.parseCSV("tag_name\nA\n"))
	s.True(errors.Is(err, ErrNotFound))
}

func (s *TrackingSuite) TestImportTestPacksSkipsExistingNames() {
	body := "Sistema,Subsistema,Nombre,ITR Asociado\n" +
		"SYS-100,SUB-101,TP-1," + strconv.Itoa(int(s.h.ITR.ID)) + "\n" +
		"SYS-100,SUB-101,TP-2,ITR-E01\n" +
		"SYS-100,SUB-101,TP-3,ITR-NOPE\n" +
		"SYS-100,SUB-101,,\n"
	rows := s.parseCSV(body)

	res, err := s.svc.ImportTestPacks(s.ctx, rows)
	s.Require().NoError(err)
	s.Equal(2, res.Created)
	s.Equal(0, res.Skipped)
	s.Len(res.Errors, 2)

	res, err = s.svc.ImportTestPacks(s.ctx, rows)
	s.Require().NoError(err)
	s.Equal(0, res.Created)
	s.Equal(2, res.Skipped)

	var packs []models.TestPack
	s.Require().NoError(s.db.Order("nombre asc").Find(&packs).Error)
	s.Require().Len(packs, 2)
	for _, p := range packs {
		s.Require().NotNil(p.ITRID)
		s.Equal(s.h.ITR.ID, *p.ITRID)
	}
}

func (s *TrackingSuite) TestImportTestPacksAmbiguousITRName() {
	other := testutil.Subsystem(s.T(), s.db, s.h.System.ID, "SUB-102")
	testutil.ITR(s.T(), s.db, other.ID, "ITR-E01")

	res, err := s.svc.ImportTestPacks(s.ctx, s.parseCSV("nombre,itr_asociado\nTP-9,ITR-E01\n"))
	s.Require().NoError(err)
	s.Zero(res.Created)
	s.Require().Len(res.Errors, 1)
	s.Contains(res.Errors[0].Message, "ambiguo")
}

func (s *TrackingSuite) TestImportTestPacksStopsOnStoreError() {
	s.Require().NoError(s.db.Callback().Query().Before("gorm:query").Register("fail_itr_lookup", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Name == "ITR" {
			_ = tx.AddError(errors.New("connection reset"))
		}
	}))

	body := "nombre,itr_asociado\nTP-1,\nTP-2," + strconv.Itoa(int(s.h.ITR.ID)) + "\nTP-3,\n"
	res, err := s.svc.ImportTestPacks(s.ctx, s.parseCSV(body))
	s.Require().Error(err)
	s.Contains(err.Error(), "connection reset")
	s.Equal(1, res.Created)
	s.Empty(res.Errors)

	var count int64
	s.Require().NoError(s.db.Model(&models.TestPack{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *TrackingSuite) TestImportITRs() {
	sub := strconv.Itoa(int(s.h.Subsystem.ID))
	body := "subsystem_id,name,status,progress,assigned_to,quantity,start_date,due_date\n" +
		sub + ",ITR-E01,,,,,,\n" +
		sub + ",ITR-E02,delayed,20,Ana,2,2024-01-15,31/03/2024\n" +
		sub + ",ITR-E03,terminado,,,,,\n" +
		"999,ITR-E04,,,,,,\n" +
		sub + ",ITR-E05,,,,,ayer,\n"

	res, err := s.svc.ImportITRs(s.ctx, 0, s.parseCSV(body))
	s.Require().NoError(err)
	s.Equal(1, res.Created)
	s.Equal(1, res.Skipped)
	s.Len(res.Errors, 3)

	var itr models.ITR
	s.Require().NoError(s.db.Where("name = ?", "ITR-E02").First(&itr).Error)
	s.Equal(models.StatusDelayed, itr.Status)
	s.Equal(20, itr.Progress)
	s.Equal(2, itr.Quantity)
	s.Require().NotNil(itr.DueDate)
	s.Equal("2024-03-31", itr.DueDate.Format("2006-01-02"))
}

func (s *TrackingSuite) TestImportITRsIntoGivenSubsystem() {
	other := testutil.Subsystem(s.T(), s.db, s.h.System.ID, "SUB-102")

	res, err := s.svc.ImportITRs(s.ctx, other.ID, s.parseCSV("name\nITR-E01\nITR-E02\n"))
	s.Require().NoError(err)
	s.Equal(2, res.Created)

	var n int64
	s.Require().NoError(s.db.Model(&models.ITR{}).Where("subsystem_id = ?", other.ID).Count(&n).Error)
	s.Equal(int64(2), n)
}
