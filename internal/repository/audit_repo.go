package repository

import (
	"time"

	"tavolo/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(l *models.AuditLog) error {
	return r.db.Create(l).Error
}

// AuditFilter narrows the admin audit listing.
type AuditFilter struct {
	Action      string
	Actor       string
	FranchiseID *uint
	LocationID  *uint
	From        *time.Time
	To          *time.Time
	Limit       int
}

func (r *AuditLogRepository) List(f AuditFilter) ([]models.AuditLog, error) {
	q := r.db.Model(&models.AuditLog{})
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Actor != "" {
		q = q.Where("actor = ?", f.Actor)
	}
	if f.FranchiseID != nil {
		q = q.Where("franchise_id = ?", *f.FranchiseID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	var out []models.AuditLog
	err := q.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *AuditLogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return deleteInBatches(r.db, &models.AuditLog{}, "created_at < ?", cutoff)
}
