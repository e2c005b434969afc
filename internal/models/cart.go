package models

import (
	"time"

	"gorm.io/gorm"
)

type Cart struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;index" json:"email"`
	UserID       *uint          `gorm:"index" json:"user_id"`
	ReminderSent bool           `gorm:"not null;default:false;index" json:"reminder_sent"`
	FranchiseID  *uint          `gorm:"index" json:"franchise_id"`
	LocationID   *uint          `gorm:"index" json:"location_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CartID     uint    `gorm:"not null;index" json:"cart_id"`
	MenuItemID *uint   `gorm:"index" json:"menu_item_id"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Quantity   int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
}

func (CartItem) TableName() string { return "cart_items" }
