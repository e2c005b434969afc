package models

import (
	"time"

	"gorm.io/gorm"
)

type Subscription struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UserID               uint           `gorm:"not null;index" json:"user_id"`
	Plan                 string         `gorm:"size:64;not null" json:"plan"`
	Status               string         `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	StripeCustomerID     string         `gorm:"size:255;index" json:"-"`
	StripeSubscriptionID string         `gorm:"size:255;uniqueIndex" json:"-"`
	CurrentPeriodEnd     *time.Time     `json:"current_period_end"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Subscription) TableName() string { return "subscriptions" }
