package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant root. Users, settings and course grants are
// scoped to exactly one company.
type Company struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid())"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
