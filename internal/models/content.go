package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Date        time.Time      `gorm:"not null;index" json:"date"`
	Capacity    int            `gorm:"not null;default:0" json:"capacity"`
	Status      string         `gorm:"size:20;default:'upcoming';index" json:"status"`
	FranchiseID *uint          `gorm:"index" json:"franchise_id"`
	LocationID  *uint          `gorm:"index" json:"location_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string { return "events" }

type Review struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AuthorName  string         `gorm:"size:255;not null" json:"author_name"`
	Email       string         `gorm:"size:255" json:"email"`
	Rating      int            `gorm:"not null" json:"rating"` // 1-5
	Comment     string         `gorm:"type:text" json:"comment"`
	Status      string         `gorm:"size:20;default:'pending';index" json:"status"` // pending | approved | rejected
	FranchiseID *uint          `gorm:"index" json:"franchise_id"`
	LocationID  *uint          `gorm:"index" json:"location_id"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string { return "reviews" }
