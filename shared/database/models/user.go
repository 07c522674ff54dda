package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User uses email as the login identifier, there is no username field.
type User struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid())"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"not null"`
	FirstName   string     `json:"first_name" gorm:"size:100"`
	LastName    string     `json:"last_name" gorm:"size:100"`
	CompanyID   *uuid.UUID `json:"company_id" gorm:"type:uuid"`
	IsAdmin     bool       `json:"is_admin" gorm:"default:false"`
	IsStaff     bool       `json:"is_staff" gorm:"default:false"`
	IsSuperuser bool       `json:"is_superuser" gorm:"default:false"`
	ProfileImg  string     `json:"profile_img"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
