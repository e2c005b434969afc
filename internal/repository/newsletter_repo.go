package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type NewsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) *NewsletterRepository {
	return &NewsletterRepository{db: db}
}

func (r *NewsletterRepository) GetByEmail(email string) (*models.NewsletterSubscription, error) {
	var s models.NewsletterSubscription
	if err := r.db.Where("email = ?", email).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *NewsletterRepository) Upsert(s *models.NewsletterSubscription) error {
	existing, err := r.GetByEmail(s.Email)
	if err == nil {
		existing.Status = s.Status
		if s.MailchimpMemberID != "" {
			existing.MailchimpMemberID = s.MailchimpMemberID
		}
		*s = *existing
		return r.db.Save(existing).Error
	}
	return r.db.Create(s).Error
}

func (r *NewsletterRepository) List(f ListFilter) ([]models.NewsletterSubscription, error) {
	var out []models.NewsletterSubscription
	q := r.db.Model(&models.NewsletterSubscription{})
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
