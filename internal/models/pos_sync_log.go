package models

import "time"

// PosSyncLog records one sync attempt against the (simulated) POS upstream.
// Retries update the same row rather than appending a new one.
type PosSyncLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	Status           string    `gorm:"size:20;not null;index" json:"status"` // success | failed
	RetryCount       int       `gorm:"not null;default:0" json:"retry_count"`
	ErrorMessage     string    `gorm:"size:512" json:"error_message"`
	PosTransactionID string    `gorm:"size:64" json:"pos_transaction_id"`
	Amount           float64   `gorm:"not null;default:0" json:"amount"`
	DurationMs       int64     `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PosSyncLog) TableName() string { return "pos_sync_logs" }
