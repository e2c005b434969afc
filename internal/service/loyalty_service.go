package service

import (
	"errors"
	"fmt"
	"time"

	"tavolo/internal/models"
	"tavolo/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrUnknownPointsAction = errors.New("action must be add or subtract")
	ErrInsufficientPoints  = errors.New("insufficient loyalty points")
	ErrRewardInactive      = errors.New("reward is not active")
)

type LoyaltyService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	rewardRepo *repository.RewardRepository
}

func NewLoyaltyService(db *gorm.DB, userRepo *repository.UserRepository, rewardRepo *repository.RewardRepository) *LoyaltyService {
	return &LoyaltyService{db: db, userRepo: userRepo, rewardRepo: rewardRepo}
}

// AdjustPoints applies a signed delta to a user's balance inside one
// transaction with a row lock, so concurrent adjustments serialize instead of
// losing updates. The balance clamps at zero; the ledger records the
// requested delta (subtracting 10 from a balance of 5 logs -10, not -5).
func (s *LoyaltyService) AdjustPoints(userID uint, action string, points int, reason, actor string) (*models.PointsTransaction, error) {
	if points < 0 {
		points = -points
	}
	var delta int
	switch action {
	case "add":
		delta = points
	case "subtract":
		delta = -points
	default:
		return nil, ErrUnknownPointsAction
	}

	var entry *models.PointsTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := lockForUpdate(tx).First(&u, userID).Error; err != nil {
			return err
		}
		before := u.LoyaltyPoints
		after := before + delta
		if after < 0 {
			after = 0
		}
		if err := tx.Model(&u).Update("loyalty_points", after).Error; err != nil {
			return err
		}
		entry = &models.PointsTransaction{
			UserID:       u.ID,
			PointsBefore: before,
			PointsAfter:  after,
			PointsChange: delta,
			Reason:       reason,
			Actor:        actor,
			CreatedAt:    time.Now(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RedeemReward spends points on a reward. The debit goes through the same
// locked transaction as any other adjustment, and the redemption record is
// written in the same transaction so points spent and rewards granted cannot
// diverge.
func (s *LoyaltyService) RedeemReward(userID, rewardID uint, actor string) (*models.RewardRedemption, error) {
	reward, err := s.rewardRepo.GetByID(rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.Active {
		return nil, ErrRewardInactive
	}

	var redemption *models.RewardRedemption
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := lockForUpdate(tx).First(&u, userID).Error; err != nil {
			return err
		}
		if u.LoyaltyPoints < reward.PointCost {
			return ErrInsufficientPoints
		}
		before := u.LoyaltyPoints
		after := before - reward.PointCost
		if err := tx.Model(&u).Update("loyalty_points", after).Error; err != nil {
			return err
		}
		ledger := &models.PointsTransaction{
			UserID:       u.ID,
			PointsBefore: before,
			PointsAfter:  after,
			PointsChange: -reward.PointCost,
			Reason:       "reward: " + reward.Title,
			Actor:        actor,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(ledger).Error; err != nil {
			return err
		}
		redemption = &models.RewardRedemption{
			RewardID:    reward.ID,
			UserID:      u.ID,
			PointsSpent: reward.PointCost,
			RedeemedAt:  time.Now(),
		}
		return s.rewardRepo.CreateRedemption(tx, redemption)
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// History returns the most recent ledger entries for a user.
func (s *LoyaltyService) History(userID uint, limit int) ([]models.PointsTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var out []models.PointsTransaction
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// CreditForOrder is the single authoritative path that turns a completed
// order into loyalty state: one point per currency unit spent, plus
// totalSpent and orderCount bumps.
func (s *LoyaltyService) CreditForOrder(userID uint, orderTotal float64, orderID uint) error {
	points := int(orderTotal)
	return s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := lockForUpdate(tx).First(&u, userID).Error; err != nil {
			return err
		}
		before := u.LoyaltyPoints
		after := before + points
		updates := map[string]interface{}{
			"loyalty_points": after,
			"total_spent":    u.TotalSpent + orderTotal,
			"order_count":    u.OrderCount + 1,
		}
		if err := tx.Model(&u).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&models.PointsTransaction{
			UserID:       u.ID,
			PointsBefore: before,
			PointsAfter:  after,
			PointsChange: points,
			Reason:       fmt.Sprintf("order #%d completed", orderID),
			Actor:        "system",
			CreatedAt:    time.Now(),
		}).Error
	})
}
