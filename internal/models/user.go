package models

import (
	"time"

	"tavolo/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Role          string         `gorm:"size:20;not null;index;default:'CUSTOMER'" json:"role"`
	GoogleID      *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups
	LoyaltyPoints int            `gorm:"not null;default:0" json:"loyalty_points"`
	TotalSpent    float64        `gorm:"not null;default:0" json:"total_spent"`
	OrderCount    int            `gorm:"not null;default:0" json:"order_count"`
	FranchiseID   *uint          `gorm:"index" json:"franchise_id"`
	LocationID    *uint          `gorm:"index" json:"location_id"`
	Status        string         `gorm:"size:20;default:'active';index" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Tier is derived from the points balance, never stored. Storing it alongside
// the balance is how the two drift apart.
func (u *User) Tier() string { return domain.Tier(u.LoyaltyPoints) }

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// PointsTransaction is the append-only loyalty ledger. PointsChange records
// the requested delta even when the balance clamps at zero, so the ledger
// reflects intent and the balance reflects outcome.
type PointsTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	PointsBefore int       `gorm:"not null" json:"points_before"`
	PointsAfter  int       `gorm:"not null" json:"points_after"`
	PointsChange int       `gorm:"not null" json:"points_change"`
	Reason       string    `gorm:"size:255" json:"reason"`
	Actor        string    `gorm:"size:255" json:"actor"`
	CreatedAt    time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsTransaction) TableName() string { return "points_transactions" }
