package models

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ThesisID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"thesis_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Thesis Thesis `gorm:"constraint:OnDelete:CASCADE;" json:"thesis,omitempty"`
}
