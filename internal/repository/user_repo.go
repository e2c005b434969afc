package repository

import (
	"tavolo/internal/domain"
	"tavolo/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("google_id = ?", googleID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

func (r *UserRepository) List(f ListFilter) ([]models.User, error) {
	var users []models.User
	err := f.apply(r.db.Model(&models.User{})).Order("created_at DESC").Find(&users).Error
	return users, err
}

// UserStats is the admin analytics rollup over the filtered user base.
type UserStats struct {
	TotalUsers    int64            `json:"total_users"`
	TierBreakdown map[string]int64 `json:"tier_breakdown"`
	AveragePoints float64          `json:"average_points"`
	VIPCount      int64            `json:"vip_count"`
	TopSpenders   []models.User    `json:"top_spenders"`
}

// Stats aggregates in SQL rather than loading every user into memory.
func (r *UserRepository) Stats(f ListFilter) (*UserStats, error) {
	base := func() *gorm.DB {
		q := r.db.Model(&models.User{})
		if f.FranchiseID != nil {
			q = q.Where("franchise_id = ?", *f.FranchiseID)
		}
		if f.LocationID != nil {
			q = q.Where("location_id = ?", *f.LocationID)
		}
		return q
	}

	stats := &UserStats{TierBreakdown: map[string]int64{
		domain.TierBronze: 0, domain.TierSilver: 0, domain.TierGold: 0, domain.TierPlatinum: 0,
	}}
	if err := base().Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Tier  string
		Count int64
	}
	var buckets []bucket
	err := base().Select(`CASE
			WHEN loyalty_points >= 1000 THEN 'Platinum'
			WHEN loyalty_points >= 500 THEN 'Gold'
			WHEN loyalty_points >= 250 THEN 'Silver'
			ELSE 'Bronze' END AS tier, COUNT(*) AS count`).
		Group("tier").Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	for _, b := range buckets {
		stats.TierBreakdown[b.Tier] = b.Count
	}
	stats.VIPCount = stats.TierBreakdown[domain.TierPlatinum]

	var avg *float64
	if err := base().Select("AVG(loyalty_points)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AveragePoints = *avg
	}

	if err := base().Order("total_spent DESC").Limit(10).Find(&stats.TopSpenders).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
