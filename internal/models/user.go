package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTecnico UserRole = "tecnico"
	RoleUser    UserRole = "user"
)

// Page names a user can be granted in Permissions.
const (
	PageDashboard  = "dashboard"
	PageProjects   = "proyectos"
	PageSystems    = "sistemas"
	PageSubsystems = "subsistemas"
	PageITRs       = "itrs"
	PageTestPacks  = "test-packs"
	PageReports    = "reportes"
	PageUsers      = "usuarios"
)

var AllPages = []string{
	PageDashboard,
	PageProjects,
	PageSystems,
	PageSubsystems,
	PageITRs,
	PageTestPacks,
	PageReports,
	PageUsers,
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string                      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string                      `gorm:"size:255" json:"full_name"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Role         UserRole                    `gorm:"type:varchar(20);not null" json:"role"`
	Permissions  datatypes.JSONSlice[string] `json:"permissions"`
}

// CanAccess reports whether the user may open the given page.
// Admins see everything.
func (u User) CanAccess(page string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == page {
			return true
		}
	}
	return false
}

func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleTecnico, RoleUser:
		return true
	}
	return false
}

func ValidPage(page string) bool {
	for _, p := range AllPages {
		if p == page {
			return true
		}
	}
	return false
}
