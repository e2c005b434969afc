package repository

import (
	"time"

	"tavolo/internal/models"

	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Create(c *models.Cart) error {
	return r.db.Create(c).Error
}

func (r *CartRepository) GetByID(id uint) (*models.Cart, error) {
	var c models.Cart
	if err := r.db.Preload("Items").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) Update(c *models.Cart) error {
	return r.db.Save(c).Error
}

// ReplaceItems swaps a cart's contents and resets the reminder flag, since a
// touched cart is no longer abandoned.
func (r *CartRepository) ReplaceItems(cartID uint, items []models.CartItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].CartID = cartID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cartID).
			Update("reminder_sent", false).Error
	})
}

func (r *CartRepository) Delete(id uint) error {
	return r.db.Delete(&models.Cart{}, id).Error
}

// Abandoned selects carts eligible for a nudge email: updated before the
// cutoff, holding at least one item, carrying an email, not yet reminded.
// The reminder flag guarantees a cart is picked at most once across runs.
func (r *CartRepository) Abandoned(cutoff time.Time) ([]models.Cart, error) {
	var carts []models.Cart
	err := r.db.Preload("Items").
		Where("updated_at < ? AND reminder_sent = ? AND email <> ''", cutoff, false).
		Where("EXISTS (SELECT 1 FROM cart_items WHERE cart_items.cart_id = carts.id)").
		Find(&carts).Error
	return carts, err
}

func (r *CartRepository) MarkReminderSent(id uint) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", id).Update("reminder_sent", true).Error
}
