package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) Create(m *models.MenuItem) error {
	return r.db.Create(m).Error
}

func (r *MenuRepository) GetByID(id uint) (*models.MenuItem, error) {
	var m models.MenuItem
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) Update(m *models.MenuItem) error {
	return r.db.Save(m).Error
}

func (r *MenuRepository) Delete(id uint) error {
	return r.db.Delete(&models.MenuItem{}, id).Error
}

func (r *MenuRepository) List(f ListFilter, category string) ([]models.MenuItem, error) {
	var out []models.MenuItem
	q := r.db.Model(&models.MenuItem{})
	if f.FranchiseID != nil {
		q = q.Where("franchise_id = ?", *f.FranchiseID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("category ASC, name ASC").Find(&out).Error
	return out, err
}
