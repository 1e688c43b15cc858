package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's 1-5 score for a thesis, at most one per pair.
type Rating struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ThesisID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"thesis_id"`
	Score     int       `gorm:"not null" json:"score"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Thesis Thesis `gorm:"constraint:OnDelete:CASCADE;" json:"thesis,omitempty"`
}
