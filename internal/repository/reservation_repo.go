package repository

import (
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(res *models.Reservation) error {
	return r.db.Create(res).Error
}

func (r *ReservationRepository) GetByID(id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) Update(res *models.Reservation) error {
	return r.db.Save(res).Error
}

func (r *ReservationRepository) Delete(id uint) error {
	return r.db.Delete(&models.Reservation{}, id).Error
}

func (r *ReservationRepository) List(f ListFilter) ([]models.Reservation, error) {
	var out []models.Reservation
	err := f.apply(r.db.Model(&models.Reservation{})).Order("created_at DESC").Find(&out).Error
	return out, err
}

// DueForReminder returns confirmed reservations dated today or earlier whose
// reminder has not been sent yet.
func (r *ReservationRepository) DueForReminder(now time.Time) ([]models.Reservation, error) {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	var out []models.Reservation
	err := r.db.Where("status = ? AND reminder_sent = ? AND date <= ?",
		domain.ReservationStatusConfirmed, false, endOfDay).
		Find(&out).Error
	return out, err
}

func (r *ReservationRepository) MarkReminderSent(id uint) error {
	return r.db.Model(&models.Reservation{}).Where("id = ?", id).Update("reminder_sent", true).Error
}
