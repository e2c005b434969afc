package models

import (
	"time"

	"gorm.io/gorm"
)

type Franchise struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	OwnerName string         `gorm:"size:255" json:"owner_name"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Locations []Location `gorm:"foreignKey:FranchiseID" json:"locations,omitempty"`
}

func (Franchise) TableName() string { return "franchises" }

type Location struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FranchiseID uint           `gorm:"not null;index" json:"franchise_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Address     string         `gorm:"size:512" json:"address"`
	Timezone    string         `gorm:"size:64;default:'UTC'" json:"timezone"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Franchise Franchise `gorm:"foreignKey:FranchiseID" json:"-"`
}

func (Location) TableName() string { return "locations" }
