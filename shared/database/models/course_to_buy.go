package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supported course languages, two-letter codes.
const (
	LanguageEN = "EN"
	LanguageRU = "RU"
	LanguageUA = "UA"
	LanguageSE = "SE"
	LanguageDE = "DE"
	LanguageFR = "FR"
	LanguageIT = "IT"
	LanguageES = "ES"
)

var languageIcons = map[string]string{
	LanguageEN: "🇬🇧",
	LanguageRU: "🇷🇺",
	LanguageUA: "🇺🇦",
	LanguageSE: "🇸🇪",
	LanguageDE: "🇩🇪",
	LanguageFR: "🇫🇷",
	LanguageIT: "🇮🇹",
	LanguageES: "🇪🇸",
}

// DefaultLanguageIcon is used for unknown or missing language codes.
const DefaultLanguageIcon = "🏳️"

// CourseToBuy is a shared catalog entry, not scoped to any tenant.
type CourseToBuy struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid())"`
	Title          string    `json:"title" gorm:"size:255;not null"`
	Description    string    `json:"description" gorm:"type:text"`
	Price          float64   `json:"price"`
	TimeToComplete int       `json:"time_to_complete"`
	Language       string    `json:"language" gorm:"size:2"`
	Img            string    `json:"img"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *CourseToBuy) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// LanguageIcon maps the language code to a flag glyph. Unknown codes get
// a neutral flag, never an error.
func (c *CourseToBuy) LanguageIcon() string {
	if icon, ok := languageIcons[c.Language]; ok {
		return icon
	}
	return DefaultLanguageIcon
}
