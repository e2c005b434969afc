package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailTemplate is an editable override for a built-in template. Resolution
// prefers a location-specific row, then a global row (LocationID nil), then
// the compiled-in fallback.
type EmailTemplate struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Key        string         `gorm:"size:64;not null;index:idx_templates_key_location,unique" json:"key"`
	LocationID *uint          `gorm:"index:idx_templates_key_location,unique" json:"location_id"`
	Subject    string         `gorm:"size:255;not null" json:"subject"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (EmailTemplate) TableName() string { return "email_templates" }
