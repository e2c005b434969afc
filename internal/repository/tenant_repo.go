package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type TenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) CreateFranchise(f *models.Franchise) error {
	return r.db.Create(f).Error
}

func (r *TenantRepository) GetFranchise(id uint) (*models.Franchise, error) {
	var f models.Franchise
	if err := r.db.Preload("Locations").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *TenantRepository) ListFranchises() ([]models.Franchise, error) {
	var out []models.Franchise
	err := r.db.Preload("Locations").Order("name ASC").Find(&out).Error
	return out, err
}

func (r *TenantRepository) CreateLocation(l *models.Location) error {
	return r.db.Create(l).Error
}

func (r *TenantRepository) GetLocation(id uint) (*models.Location, error) {
	var l models.Location
	if err := r.db.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *TenantRepository) ListLocations(franchiseID *uint) ([]models.Location, error) {
	q := r.db.Model(&models.Location{})
	if franchiseID != nil {
		q = q.Where("franchise_id = ?", *franchiseID)
	}
	var out []models.Location
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}
