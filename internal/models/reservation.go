package models

import (
	"time"

	"gorm.io/gorm"
)

type Reservation struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Email        string         `gorm:"size:255;not null;index" json:"email"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Date         time.Time      `gorm:"not null;index" json:"date"`
	Time         string         `gorm:"size:8;not null" json:"time"` // "19:30"
	Guests       int            `gorm:"not null" json:"guests"`
	Status       string         `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	ReminderSent bool           `gorm:"not null;default:false;index" json:"reminder_sent"`
	FranchiseID  *uint          `gorm:"index" json:"franchise_id"`
	LocationID   *uint          `gorm:"index" json:"location_id"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Reservation) TableName() string { return "reservations" }

type PrivateDiningRequest struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	RequesterName string         `gorm:"size:255;not null" json:"requester_name"`
	Email         string         `gorm:"size:255;not null" json:"email"`
	Phone         string         `gorm:"size:32" json:"phone"`
	Date          time.Time      `gorm:"not null" json:"date"`
	PartySize     int            `gorm:"not null" json:"party_size"`
	EventNature   string         `gorm:"size:255" json:"event_nature"`
	Notes         string         `gorm:"type:text" json:"notes"`
	Status        string         `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	FranchiseID   *uint          `gorm:"index" json:"franchise_id"`
	LocationID    *uint          `gorm:"index" json:"location_id"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PrivateDiningRequest) TableName() string { return "private_dining_requests" }
