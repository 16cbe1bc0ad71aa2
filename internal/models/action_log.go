package models

import "time"

type LogAction string

const (
	ActionCreated  LogAction = "created"
	ActionReleased LogAction = "released"
	ActionUpdated  LogAction = "updated"
	ActionDeleted  LogAction = "deleted"
	ActionCloned   LogAction = "cloned"
)

// Entities recorded in the action log.
const (
	EntityTag       = "tag"
	EntityTestPack  = "test_pack"
	EntityProject   = "project"
	EntitySystem    = "system"
	EntitySubsystem = "subsystem"
	EntityITR       = "itr"
)

// ActionLog is the append-only trail of who did what to which row.
// Tag entries also carry TagID and TagName. Neither id is a foreign key:
// rows outlive what they describe.
type ActionLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID *uint `gorm:"index" json:"user_id"`
	User   *User `json:"user,omitempty"`

	Entity   string `gorm:"size:20;not null;default:tag;index:idx_action_logs_entity" json:"entity"`
	EntityID uint   `gorm:"index:idx_action_logs_entity" json:"entity_id"`

	TagID   uint      `gorm:"index" json:"tag_id"`
	TagName string    `gorm:"size:255" json:"tag_name"`
	Action  LogAction `gorm:"size:20;not null" json:"action"`
	Details string    `gorm:"type:text" json:"details"`
}

// All lists every model in migration order.
var All = []interface{}{
	&User{},
	&Project{},
	&System{},
	&Subsystem{},
	&ITR{},
	&TestPack{},
	&Tag{},
	&ActionLog{},
}
