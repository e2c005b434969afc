package models

import "time"

// AuditLog is write-only from the application flows; the admin UI reads it
// with filters and a periodic cleanup deletes old rows in batches.
type AuditLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Action        string    `gorm:"size:100;not null;index" json:"action"`
	Description   string    `gorm:"type:text" json:"description"`
	Actor         string    `gorm:"size:255;index" json:"actor"`
	FranchiseID   *uint     `gorm:"index" json:"franchise_id"`
	FranchiseName string    `gorm:"size:255" json:"franchise_name"`
	LocationID    *uint     `gorm:"index" json:"location_id"`
	LocationName  string    `gorm:"size:255" json:"location_name"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
