package repository

import (
	"strings"

	"tavolo/internal/models"

	"gorm.io/gorm"
)

type PromoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) Create(p *models.PromoCode) error {
	p.Code = strings.ToUpper(p.Code)
	return r.db.Create(p).Error
}

func (r *PromoRepository) GetByCode(code string) (*models.PromoCode, error) {
	var p models.PromoCode
	if err := r.db.Where("code = ?", strings.ToUpper(code)).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromoRepository) GetByID(id uint) (*models.PromoCode, error) {
	var p models.PromoCode
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromoRepository) Update(p *models.PromoCode) error {
	return r.db.Save(p).Error
}

func (r *PromoRepository) Delete(id uint) error {
	return r.db.Delete(&models.PromoCode{}, id).Error
}

func (r *PromoRepository) List(f ListFilter) ([]models.PromoCode, error) {
	var out []models.PromoCode
	q := r.db.Model(&models.PromoCode{})
	if f.FranchiseID != nil {
		q = q.Where("franchise_id = ?", *f.FranchiseID)
	}
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// ReserveUsage atomically claims one use of the code inside tx. The guarded
// update only succeeds while usage_count is below usage_limit, so two
// concurrent redemptions cannot both claim the last slot. A limit of zero
// means unlimited.
func (r *PromoRepository) ReserveUsage(tx *gorm.DB, code string) (bool, error) {
	res := tx.Model(&models.PromoCode{}).
		Where("code = ? AND active = ? AND (usage_limit = 0 OR usage_count < usage_limit)", strings.ToUpper(code), true).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PromoRepository) CreateRedemption(tx *gorm.DB, red *models.PromoRedemption) error {
	return tx.Create(red).Error
}

func (r *PromoRepository) DB() *gorm.DB { return r.db }

// CodeUsage is one row of the usage-stats aggregation.
type CodeUsage struct {
	PromoCode    string  `json:"promo_code"`
	Redemptions  int64   `json:"redemptions"`
	TotalSavings float64 `json:"total_savings"`
	TotalRevenue float64 `json:"total_revenue"`
}

// UsageStats aggregates redemption rows per code in SQL, ordered by
// redemption count.
func (r *PromoRepository) UsageStats() ([]CodeUsage, error) {
	var out []CodeUsage
	err := r.db.Model(&models.PromoRedemption{}).
		Select("promo_code, COUNT(*) AS redemptions, SUM(discount_applied) AS total_savings, SUM(order_total) AS total_revenue").
		Group("promo_code").
		Order("redemptions DESC").
		Scan(&out).Error
	return out, err
}
