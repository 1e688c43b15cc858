package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chapter is structural front matter of a thesis. Rows are removed by the
// database when the parent thesis is deleted.
type Chapter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThesisID  uuid.UUID `gorm:"type:uuid;not null;index" json:"thesis_id"`
	Thesis    Thesis    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Number    int       `gorm:"not null;default:1" json:"number"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	StartPage int       `json:"start_page"`
	EndPage   int       `json:"end_page"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ch *Chapter) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return nil
}
