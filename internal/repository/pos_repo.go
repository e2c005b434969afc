package repository

import (
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type PosRepository struct {
	db *gorm.DB
}

func NewPosRepository(db *gorm.DB) *PosRepository {
	return &PosRepository{db: db}
}

func (r *PosRepository) Create(l *models.PosSyncLog) error {
	return r.db.Create(l).Error
}

func (r *PosRepository) GetByID(id uint) (*models.PosSyncLog, error) {
	var l models.PosSyncLog
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PosRepository) Update(l *models.PosSyncLog) error {
	return r.db.Save(l).Error
}

func (r *PosRepository) List(f ListFilter) ([]models.PosSyncLog, error) {
	var out []models.PosSyncLog
	q := r.db.Model(&models.PosSyncLog{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// PosStats summarizes sync outcomes over a date window.
type PosStats struct {
	TotalSyncs    int64   `json:"total_syncs"`
	Succeeded     int64   `json:"succeeded"`
	Failed        int64   `json:"failed"`
	SuccessRate   float64 `json:"success_rate"`
	RevenueSynced float64 `json:"revenue_synced"`
}

func (r *PosRepository) Stats(from, to time.Time) (*PosStats, error) {
	window := func() *gorm.DB {
		return r.db.Model(&models.PosSyncLog{}).Where("created_at BETWEEN ? AND ?", from, to)
	}
	stats := &PosStats{}
	if err := window().Count(&stats.TotalSyncs).Error; err != nil {
		return nil, err
	}
	if err := window().Where("status = ?", domain.PosSyncStatusSuccess).Count(&stats.Succeeded).Error; err != nil {
		return nil, err
	}
	stats.Failed = stats.TotalSyncs - stats.Succeeded
	if stats.TotalSyncs > 0 {
		stats.SuccessRate = float64(stats.Succeeded) / float64(stats.TotalSyncs)
	}
	var revenue *float64
	err := window().Where("status = ?", domain.PosSyncStatusSuccess).
		Select("SUM(amount)").Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.RevenueSynced = *revenue
	}
	return stats, nil
}

func (r *PosRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return deleteInBatches(r.db, &models.PosSyncLog{}, "created_at < ?", cutoff)
}
