package models

import (
	"time"

	"gorm.io/gorm"
)

type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:64;index" json:"category"`
	Price       float64        `gorm:"not null" json:"price"`
	ImageURL    string         `gorm:"size:512" json:"image_url"`
	Available   bool           `gorm:"not null;default:true;index" json:"available"`
	FranchiseID *uint          `gorm:"index" json:"franchise_id"`
	LocationID  *uint          `gorm:"index" json:"location_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MenuItem) TableName() string { return "menu_items" }
