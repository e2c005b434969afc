package models

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode is the canonical promo definition. Validation always loads the
// promo by code from this table; client-supplied promo payloads are never
// trusted.
type PromoCode struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Code           string         `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Type           string         `gorm:"size:20;not null" json:"type"` // percentage | fixed
	Value          float64        `gorm:"not null" json:"value"`
	MaxDiscount    float64        `gorm:"not null;default:0" json:"max_discount"` // 0 = uncapped
	MinOrderAmount float64        `gorm:"not null;default:0" json:"min_order_amount"`
	UsageLimit     int            `gorm:"not null;default:0" json:"usage_limit"` // 0 = unlimited
	UsageCount     int            `gorm:"not null;default:0" json:"usage_count"`
	ExpiresAt      *time.Time     `json:"expires_at"`
	Active         bool           `gorm:"not null;default:true;index" json:"active"`
	FranchiseID    *uint          `gorm:"index" json:"franchise_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PromoCode) TableName() string { return "promo_codes" }

// PromoRedemption is append-only: one row per successful use of a code.
type PromoRedemption struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PromoCode       string    `gorm:"size:64;not null;index" json:"promo_code"`
	UserID          *uint     `gorm:"index" json:"user_id"`
	OrderID         *uint     `gorm:"index" json:"order_id"`
	OrderTotal      float64   `gorm:"not null" json:"order_total"`
	DiscountApplied float64   `gorm:"not null" json:"discount_applied"`
	RedeemedAt      time.Time `gorm:"index" json:"redeemed_at"`
}

func (PromoRedemption) TableName() string { return "promo_redemptions" }
