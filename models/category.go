package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null;unique" json:"name"`
	Code      string     `gorm:"size:20" json:"code"`
	Slug      string     `gorm:"size:100;uniqueIndex" json:"slug"`
	Active    bool       `gorm:"default:true" json:"active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;default:null" json:"created_by"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;default:null" json:"updated_by"`

	Theses []Thesis `json:"theses,omitempty"`

	ThesisCount int64 `gorm:"->;-:migration" json:"thesis_count"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
