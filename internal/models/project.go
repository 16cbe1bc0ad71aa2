package models

import "time"

type Status string

const (
	StatusComplete   Status = "complete"
	StatusInProgress Status = "inprogress"
	StatusDelayed    Status = "delayed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusComplete, StatusInProgress, StatusDelayed:
		return true
	}
	return false
}

type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Location string `gorm:"size:255" json:"location"`
	Status   Status `gorm:"type:varchar(20);not null" json:"status"`
	Progress int    `gorm:"not null;default:0" json:"progress"` // 0-100

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Systems []System `gorm:"constraint:OnDelete:CASCADE" json:"systems,omitempty"`
}

type System struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint `gorm:"index;not null" json:"project_id"`

	Name           string `gorm:"size:255;not null" json:"name"`
	CompletionRate int    `gorm:"not null;default:0" json:"completion_rate"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Subsystems []Subsystem `gorm:"constraint:OnDelete:CASCADE" json:"subsystems,omitempty"`
}

type Subsystem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SystemID uint `gorm:"index;not null" json:"system_id"`

	Name           string `gorm:"size:255;not null" json:"name"`
	CompletionRate int    `gorm:"not null;default:0" json:"completion_rate"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	ITRs []ITR `gorm:"constraint:OnDelete:CASCADE" json:"itrs,omitempty"`
}

// ITR is an inspection test record, scoped to one subsystem.
type ITR struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SubsystemID uint `gorm:"index;not null" json:"subsystem_id"`

	Name       string `gorm:"size:255;not null" json:"name"`
	Status     Status `gorm:"type:varchar(20);not null" json:"status"`
	Progress   int    `gorm:"not null;default:0" json:"progress"`
	AssignedTo string `gorm:"size:255" json:"assigned_to"`
	Quantity   int    `gorm:"not null" json:"quantity"`

	StartDate *time.Time `json:"start_date"`
	DueDate   *time.Time `json:"due_date"`
}
