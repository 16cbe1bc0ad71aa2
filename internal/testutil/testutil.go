// Package testutil opens throwaway in-memory stores and seeds fixtures.
package testutil

import (
	"testing"
	"time"

	"completions-tracker/internal/database"
	"completions-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DB returns a migrated in-memory SQLite store private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn)
	require.NoError(tb, err)
	require.NoError(tb, database.Migrate(db))

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func User(tb testing.TB, db *gorm.DB, email, password string, role models.UserRole, pages ...string) models.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(tb, err)

	u := models.User{
		Email:        email,
		FullName:     email,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  pages,
	}
	require.NoError(tb, db.Create(&u).Error)
	return u
}

func Project(tb testing.TB, db *gorm.DB, name string) models.Project {
	tb.Helper()
	p := models.Project{Name: name, Location: "Campo Norte", Status: models.StatusInProgress}
	require.NoError(tb, db.Create(&p).Error)
	return p
}

func System(tb testing.TB, db *gorm.DB, projectID uint, name string, rate int) models.System {
	tb.Helper()
	s := models.System{ProjectID: projectID, Name: name, CompletionRate: rate}
	require.NoError(tb, db.Create(&s).Error)
	return s
}

func Subsystem(tb testing.TB, db *gorm.DB, systemID uint, name string) models.Subsystem {
	tb.Helper()
	s := models.Subsystem{SystemID: systemID, Name: name}
	require.NoError(tb, db.Create(&s).Error)
	return s
}

func ITR(tb testing.TB, db *gorm.DB, subsystemID uint, name string) models.ITR {
	tb.Helper()
	it := models.ITR{
		SubsystemID: subsystemID,
		Name:        name,
		Status:      models.StatusInProgress,
		AssignedTo:  "J. Pérez",
		Quantity:    3,
		StartDate:   Date(2024, time.March, 1),
		DueDate:     Date(2024, time.June, 30),
	}
	require.NoError(tb, db.Create(&it).Error)
	return it
}

// TestPack creates a pack with one pendiente tag per name.
func TestPack(tb testing.TB, db *gorm.DB, nombre string, itrID *uint, tags ...string) models.TestPack {
	tb.Helper()
	tp := models.TestPack{
		Sistema:    "SYS-100",
		Subsistema: "SUB-101",
		Nombre:     nombre,
		ITRID:      itrID,
		Estado:     models.TestPackPendiente,
	}
	require.NoError(tb, db.Create(&tp).Error)

	for _, name := range tags {
		t := models.Tag{TestPackID: tp.ID, TagName: name, Estado: models.TagPendiente}
		require.NoError(tb, db.Create(&t).Error)
		tp.Tags = append(tp.Tags, t)
	}
	return tp
}

// Hierarchy seeds one project → system → subsystem → ITR chain.
type Hierarchy struct {
	Project   models.Project
	System    models.System
	Subsystem models.Subsystem
	ITR       models.ITR
}

func SeedHierarchy(tb testing.TB, db *gorm.DB) Hierarchy {
	tb.Helper()
	p := Project(tb, db, "Planta Compresora")
	s := System(tb, db, p.ID, "SYS-100", 40)
	sub := Subsystem(tb, db, s.ID, "SUB-101")
	it := ITR(tb, db, sub.ID, "ITR-E01")
	return Hierarchy{Project: p, System: s, Subsystem: sub, ITR: it}
}
