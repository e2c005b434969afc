package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(s *models.Subscription) error {
	return r.db.Create(s).Error
}

func (r *SubscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) GetByStripeID(stripeSubID string) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.Where("stripe_subscription_id = ?", stripeSubID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) GetByUserID(userID uint) (*models.Subscription, error) {
	var s models.Subscription
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) Update(s *models.Subscription) error {
	return r.db.Save(s).Error
}

func (r *SubscriptionRepository) List(f ListFilter) ([]models.Subscription, error) {
	var out []models.Subscription
	q := r.db.Model(&models.Subscription{})
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
