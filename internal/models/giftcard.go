package models

import (
	"time"

	"gorm.io/gorm"
)

type GiftCard struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	GiftCode        string         `gorm:"uniqueIndex;size:8;not null" json:"gift_code"`
	RecipientEmail  string         `gorm:"size:255;not null;index" json:"recipient_email"`
	RecipientName   string         `gorm:"size:255" json:"recipient_name"`
	Message         string         `gorm:"type:text" json:"message"`
	InitialAmount   float64        `gorm:"not null" json:"initial_amount"`
	RemainingAmount float64        `gorm:"not null" json:"remaining_amount"`
	Status          string         `gorm:"size:20;not null;index;default:'active'" json:"status"`
	ExpiresAt       *time.Time     `json:"expires_at"`
	FranchiseID     *uint          `gorm:"index" json:"franchise_id"`
	StripeRef       string         `gorm:"size:255" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Transactions []GiftCardTransaction `gorm:"foreignKey:GiftCardID" json:"transactions,omitempty"`
}

func (GiftCard) TableName() string { return "gift_cards" }

type GiftCardTransaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GiftCardID uint      `gorm:"not null;index" json:"gift_card_id"`
	OrderID    *uint     `gorm:"index" json:"order_id"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Balance    float64   `gorm:"not null" json:"balance"` // remaining after this redemption
	CreatedAt  time.Time `json:"created_at"`
}

func (GiftCardTransaction) TableName() string { return "gift_card_transactions" }
