package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Download is one recorded retrieval of a thesis. UserID is nil for
// anonymous visitors.
type Download struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ThesisID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"thesis_id"`
	Thesis    Thesis     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (d *Download) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
