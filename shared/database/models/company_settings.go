package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default branding colors applied when settings are created lazily.
const (
	DefaultPrimaryColor   = "#007bff"
	DefaultTextColor      = "#000000"
	DefaultSecondaryColor = "#6c757d"
)

// CompanySettings stores per-company dashboard branding. The unique index
// on CompanyID is what arbitrates concurrent lazy creation: the store
// rejects the loser, application code never locks.
type CompanySettings struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid())"`
	CompanyID       uuid.UUID `json:"company_id" gorm:"type:uuid;uniqueIndex;not null"`
	PrimaryColor    string    `json:"primary_color" gorm:"size:20;default:'#007bff'"`
	TextColor       string    `json:"text_color" gorm:"size:20;default:'#000000'"`
	SecondaryColor  string    `json:"secondary_color" gorm:"size:20;default:'#6c757d'"`
	BackgroundColor string    `json:"background_color" gorm:"size:20"`
	Logo            string    `json:"logo"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Company Company `json:"-" gorm:"foreignKey:CompanyID"`
}

func (s *CompanySettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
