package models

import "time"

type TestPackState string
type TagState string

const (
	TestPackPendiente TestPackState = "pendiente"
	TestPackListo     TestPackState = "listo"

	TagPendiente TagState = "pendiente"
	TagLiberado  TagState = "liberado"
)

func ValidTagState(s TagState) bool {
	return s == TagPendiente || s == TagLiberado
}

type TestPack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sistema    string `gorm:"size:255" json:"sistema"`
	Subsistema string `gorm:"size:255" json:"subsistema"`
	Nombre     string `gorm:"size:255;not null;index" json:"nombre"`

	// itr_asociado always holds the ITR primary key
	ITRID *uint `gorm:"column:itr_asociado;index" json:"itr_asociado"`
	ITR   *ITR  `gorm:"foreignKey:ITRID;constraint:OnDelete:SET NULL" json:"itr,omitempty"`

	Estado TestPackState `gorm:"type:varchar(20);not null;default:pendiente" json:"estado"`

	// derived from Tags on every read
	Progress int `gorm:"-" json:"progress"`

	Tags []Tag `gorm:"constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TestPackID uint `gorm:"index;not null" json:"test_pack_id"`

	TagName         string     `gorm:"size:255;not null" json:"tag_name"`
	Estado          TagState   `gorm:"type:varchar(20);not null;default:pendiente" json:"estado"`
	FechaLiberacion *time.Time `json:"fecha_liberacion"`
}
