package models

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       *uint          `gorm:"index" json:"user_id"`
	Subtotal     float64        `gorm:"not null" json:"subtotal"`
	Discount     float64        `gorm:"not null;default:0" json:"discount"`
	Tax          float64        `gorm:"not null;default:0" json:"tax"`
	Total        float64        `gorm:"not null" json:"total"`
	PromoCode    string         `gorm:"size:64;index" json:"promo_code"`
	Status       string         `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	CustomerType string         `gorm:"size:20" json:"customer_type"` // dine_in, takeout, delivery
	FranchiseID  *uint          `gorm:"index" json:"franchise_id"`
	LocationID   *uint          `gorm:"index" json:"location_id"`
	StripeRef    string         `gorm:"size:255;index" json:"-"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"not null;index" json:"order_id"`
	MenuItemID *uint   `gorm:"index" json:"menu_item_id"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	Quantity   int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
	LineTotal  float64 `gorm:"not null" json:"line_total"`
}

func (OrderItem) TableName() string { return "order_items" }
