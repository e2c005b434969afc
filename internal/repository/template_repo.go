package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Resolve returns the override for key, preferring a location-specific row.
// gorm.ErrRecordNotFound means the caller should use the built-in fallback.
func (r *TemplateRepository) Resolve(key string, locationID *uint) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	if locationID != nil {
		err := r.db.Where("`key` = ? AND location_id = ?", key, *locationID).First(&t).Error
		if err == nil {
			return &t, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}
	if err := r.db.Where("`key` = ? AND location_id IS NULL", key).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) GetByID(id uint) (*models.EmailTemplate, error) {
	var t models.EmailTemplate
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) Create(t *models.EmailTemplate) error {
	return r.db.Create(t).Error
}

func (r *TemplateRepository) Update(t *models.EmailTemplate) error {
	return r.db.Save(t).Error
}

func (r *TemplateRepository) Delete(id uint) error {
	return r.db.Delete(&models.EmailTemplate{}, id).Error
}

func (r *TemplateRepository) List() ([]models.EmailTemplate, error) {
	var out []models.EmailTemplate
	err := r.db.Order("`key` ASC").Find(&out).Error
	return out, err
}
