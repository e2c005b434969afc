package repository

import (
	"time"

	"tavolo/internal/models"

	"gorm.io/gorm"
)

type RewardRepository struct {
	db *gorm.DB
}

func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

func (r *RewardRepository) Create(rw *models.Reward) error {
	return r.db.Create(rw).Error
}

func (r *RewardRepository) GetByID(id uint) (*models.Reward, error) {
	var rw models.Reward
	if err := r.db.First(&rw, id).Error; err != nil {
		return nil, err
	}
	return &rw, nil
}

func (r *RewardRepository) Update(rw *models.Reward) error {
	return r.db.Save(rw).Error
}

func (r *RewardRepository) Delete(id uint) error {
	return r.db.Delete(&models.Reward{}, id).Error
}

func (r *RewardRepository) List(f ListFilter) ([]models.Reward, error) {
	var out []models.Reward
	q := r.db.Model(&models.Reward{})
	if f.FranchiseID != nil {
		q = q.Where("franchise_id = ?", *f.FranchiseID)
	}
	err := q.Where("active = ?", true).Order("point_cost ASC").Find(&out).Error
	return out, err
}

func (r *RewardRepository) CreateRedemption(tx *gorm.DB, red *models.RewardRedemption) error {
	return tx.Create(red).Error
}

func (r *RewardRepository) ListRedemptions(userID uint, limit int) ([]models.RewardRedemption, error) {
	var out []models.RewardRedemption
	if limit <= 0 {
		limit = defaultListLimit
	}
	err := r.db.Where("user_id = ?", userID).Order("redeemed_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// DeleteOlderThan removes redemption rows past the retention window in
// batches of 500.
func (r *RewardRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	return deleteInBatches(r.db, &models.RewardRedemption{}, "redeemed_at < ?", cutoff)
}
