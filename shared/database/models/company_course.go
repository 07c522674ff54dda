package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyCourse grants a company access to a catalog course, either
// purchased or only ordered. The composite unique index keeps a company
// from holding two grants for the same course; concurrent purchases are
// settled by the store, not by application locking.
type CompanyCourse struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid())"`
	CompanyID   uuid.UUID `json:"company_id" gorm:"type:uuid;not null;uniqueIndex:idx_company_course"`
	CourseID    uuid.UUID `json:"course_id" gorm:"type:uuid;not null;uniqueIndex:idx_company_course"`
	IsOrdered   bool      `json:"is_ordered" gorm:"default:false"`
	PurchasedAt time.Time `json:"purchased_at" gorm:"autoCreateTime"`

	// Relations
	Company Company     `json:"-" gorm:"foreignKey:CompanyID"`
	Course  CourseToBuy `json:"course" gorm:"foreignKey:CourseID"`
}

func (g *CompanyCourse) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
