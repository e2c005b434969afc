package repository

import (
	"strings"

	"tavolo/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GiftCardRepository struct {
	db *gorm.DB
}

func NewGiftCardRepository(db *gorm.DB) *GiftCardRepository {
	return &GiftCardRepository{db: db}
}

func (r *GiftCardRepository) Create(g *models.GiftCard) error {
	return r.db.Create(g).Error
}

func (r *GiftCardRepository) GetByCode(code string) (*models.GiftCard, error) {
	var g models.GiftCard
	if err := r.db.Where("gift_code = ?", strings.ToUpper(code)).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// GetForUpdate loads the card by email+code with a row lock; must run inside
// a transaction. SQLite has no FOR UPDATE; its single-writer model serializes
// the transaction anyway.
func (r *GiftCardRepository) GetForUpdate(tx *gorm.DB, email, code string) (*models.GiftCard, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var g models.GiftCard
	err := q.
		Where("recipient_email = ? AND gift_code = ?", email, strings.ToUpper(code)).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiftCardRepository) Update(tx *gorm.DB, g *models.GiftCard) error {
	return tx.Save(g).Error
}

func (r *GiftCardRepository) CreateTransaction(tx *gorm.DB, t *models.GiftCardTransaction) error {
	return tx.Create(t).Error
}

func (r *GiftCardRepository) List(f ListFilter) ([]models.GiftCard, error) {
	var out []models.GiftCard
	err := f.apply(r.db.Model(&models.GiftCard{})).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *GiftCardRepository) DB() *gorm.DB { return r.db }
