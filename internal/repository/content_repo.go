package repository

import (
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.Event) error { return r.db.Create(e).Error }

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var e models.Event
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) Update(e *models.Event) error { return r.db.Save(e).Error }
func (r *EventRepository) Delete(id uint) error         { return r.db.Delete(&models.Event{}, id).Error }

func (r *EventRepository) List(f ListFilter) ([]models.Event, error) {
	var out []models.Event
	err := f.apply(r.db.Model(&models.Event{})).Order("date ASC").Find(&out).Error
	return out, err
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(rv *models.Review) error { return r.db.Create(rv).Error }

func (r *ReviewRepository) GetByID(id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.db.First(&rv, id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) Update(rv *models.Review) error { return r.db.Save(rv).Error }
func (r *ReviewRepository) Delete(id uint) error           { return r.db.Delete(&models.Review{}, id).Error }

func (r *ReviewRepository) List(f ListFilter) ([]models.Review, error) {
	var out []models.Review
	err := f.apply(r.db.Model(&models.Review{})).Order("created_at DESC").Find(&out).Error
	return out, err
}
