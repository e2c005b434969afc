package models

import (
	"time"

	"gorm.io/gorm"
)

type Reward struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	PointCost   int            `gorm:"not null" json:"point_cost"`
	Active      bool           `gorm:"not null;default:true;index" json:"active"`
	FranchiseID *uint          `gorm:"index" json:"franchise_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Reward) TableName() string { return "rewards" }

type RewardRedemption struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RewardID    uint      `gorm:"not null;index" json:"reward_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	PointsSpent int       `gorm:"not null" json:"points_spent"`
	RedeemedAt  time.Time `gorm:"index" json:"redeemed_at"`

	Reward Reward `gorm:"foreignKey:RewardID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

func (RewardRedemption) TableName() string { return "reward_redemptions" }
