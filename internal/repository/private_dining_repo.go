package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type PrivateDiningRepository struct {
	db *gorm.DB
}

func NewPrivateDiningRepository(db *gorm.DB) *PrivateDiningRepository {
	return &PrivateDiningRepository{db: db}
}

func (r *PrivateDiningRepository) Create(req *models.PrivateDiningRequest) error {
	return r.db.Create(req).Error
}

func (r *PrivateDiningRepository) GetByID(id uint) (*models.PrivateDiningRequest, error) {
	var req models.PrivateDiningRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PrivateDiningRepository) Update(req *models.PrivateDiningRequest) error {
	return r.db.Save(req).Error
}

func (r *PrivateDiningRepository) Delete(id uint) error {
	return r.db.Delete(&models.PrivateDiningRequest{}, id).Error
}

func (r *PrivateDiningRepository) List(f ListFilter) ([]models.PrivateDiningRequest, error) {
	var out []models.PrivateDiningRequest
	err := f.apply(r.db.Model(&models.PrivateDiningRequest{})).Order("created_at DESC").Find(&out).Error
	return out, err
}
