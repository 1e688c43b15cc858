package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DegreeLevel string

const (
	DegreeBachelor  DegreeLevel = "BACHELOR"
	DegreeMaster    DegreeLevel = "MASTER"
	DegreeDoctorate DegreeLevel = "DOCTORATE"
	DegreeDiploma   DegreeLevel = "DIPLOMA"
)

type ThesisStatus string

const (
	StatusDraft    ThesisStatus = "DRAFT"
	StatusPending  ThesisStatus = "PENDING"
	StatusApproved ThesisStatus = "APPROVED"
)

type Thesis struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string    `gorm:"size:500;not null" json:"title"`
	Abstract string    `gorm:"type:text;not null" json:"abstract"`

	// AuthorName stores the normalized comma-joined author list.
	AuthorName  string  `gorm:"size:500;not null" json:"author_name"`
	AuthorEmail *string `gorm:"size:150" json:"author_email"`
	StudentID   *string `gorm:"size:50" json:"student_id"`

	AdvisorName      string                       `gorm:"size:150;not null" json:"advisor_name"`
	CoAdvisorName    *string                      `gorm:"size:150" json:"co_advisor_name"`
	CommitteeMembers datatypes.JSONSlice[string]  `json:"committee_members"`
	Department       string                       `gorm:"size:150;not null" json:"department"`
	Program          string                       `gorm:"size:150;not null" json:"program"`
	University       string                       `gorm:"size:150;not null" json:"university"`
	DegreeLevel      DegreeLevel                  `gorm:"type:varchar(20);not null" json:"degree_level"`
	CategoryID       uuid.UUID                    `gorm:"type:uuid;not null" json:"category_id"`
	Category         Category                     `gorm:"constraint:OnDelete:RESTRICT;" json:"category,omitempty"`
	Keywords         datatypes.JSONSlice[string]  `json:"keywords"`
	Language         string                       `gorm:"size:50;not null" json:"language"`

	SubmissionDate time.Time  `gorm:"not null" json:"submission_date"`
	DefenseDate    *time.Time `json:"defense_date"`

	Status       ThesisStatus `gorm:"type:varchar(20);not null;default:'APPROVED';index" json:"status"`
	ApprovalDate *time.Time   `json:"approval_date"`
	ApprovedBy   *uuid.UUID   `gorm:"type:uuid" json:"approved_by"`

	// Citation is derived once at creation and stored verbatim.
	Citation string `gorm:"type:text" json:"citation"`

	UploadedByUserID uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by_user_id"`
	UploadedBy       User      `gorm:"foreignKey:UploadedByUserID;constraint:OnDelete:CASCADE;" json:"uploaded_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Chapters  []Chapter  `json:"chapters,omitempty"`
	Downloads []Download `json:"downloads,omitempty"`
	Favorites []Favorite `json:"favorites,omitempty"`
	Ratings   []Rating   `json:"ratings,omitempty"`

	// Read-only aggregates filled by listing queries, not columns.
	DownloadCount int64 `gorm:"->;-:migration" json:"download_count"`
	FavoriteCount int64 `gorm:"->;-:migration" json:"favorite_count"`
	RatingCount   int64 `gorm:"->;-:migration" json:"rating_count"`
}

func (t *Thesis) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
