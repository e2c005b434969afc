package service

import (
	"errors"
	"math"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoInactive      = errors.New("promo code is not active")
	ErrPromoExpired       = errors.New("promo code has expired")
	ErrPromoMinOrder      = errors.New("order total below minimum for this promo code")
	ErrPromoLimitExceeded = errors.New("promo code usage limit reached")
)

type PromoService struct {
	repo *repository.PromoRepository
}

func NewPromoService(repo *repository.PromoRepository) *PromoService {
	return &PromoService{repo: repo}
}

// ValidationResult is the payload returned to the storefront on a successful
// validation.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}

// Validate loads the canonical promo by code and checks, in order: active
// flag, expiration, minimum order amount, usage limit. The discount is
// computed but nothing is reserved; Redeem claims the slot.
func (s *PromoService) Validate(code string, orderTotal float64) (*ValidationResult, error) {
	promo, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	if err := checkPromo(promo, orderTotal, time.Now()); err != nil {
		return nil, err
	}
	return &ValidationResult{
		Valid:    true,
		Code:     promo.Code,
		Type:     promo.Type,
		Value:    promo.Value,
		Discount: Discount(promo, orderTotal),
		Message:  "Promo code applied",
	}, nil
}

// Redeem claims one use of the code and appends the redemption record, all in
// one transaction.
func (s *PromoService) Redeem(code string, orderTotal float64, userID, orderID *uint) (*models.PromoRedemption, error) {
	var redemption *models.PromoRedemption
	err := s.repo.DB().Transaction(func(tx *gorm.DB) error {
		var err error
		redemption, err = s.RedeemTx(tx, code, orderTotal, userID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// RedeemTx claims one use of the code and appends the redemption record
// inside the caller's transaction, so the redemption commits or rolls back
// with whatever the caller is building (typically the order row it links to).
// The guarded usage_count update is what makes two concurrent redemptions of
// the last slot impossible: only one of them affects a row.
func (s *PromoService) RedeemTx(tx *gorm.DB, code string, orderTotal float64, userID, orderID *uint) (*models.PromoRedemption, error) {
	promo, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	if err := checkPromo(promo, orderTotal, time.Now()); err != nil {
		return nil, err
	}

	ok, err := s.repo.ReserveUsage(tx, promo.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPromoLimitExceeded
	}
	redemption := &models.PromoRedemption{
		PromoCode:       promo.Code,
		UserID:          userID,
		OrderID:         orderID,
		OrderTotal:      orderTotal,
		DiscountApplied: Discount(promo, orderTotal),
		RedeemedAt:      time.Now(),
	}
	if err := s.repo.CreateRedemption(tx, redemption); err != nil {
		return nil, err
	}
	return redemption, nil
}

func (s *PromoService) UsageStats() ([]repository.CodeUsage, []repository.CodeUsage, error) {
	all, err := s.repo.UsageStats()
	if err != nil {
		return nil, nil, err
	}
	top := all
	if len(top) > 5 {
		top = top[:5]
	}
	return all, top, nil
}

func checkPromo(p *models.PromoCode, orderTotal float64, now time.Time) error {
	if !p.Active {
		return ErrPromoInactive
	}
	if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
		return ErrPromoExpired
	}
	if orderTotal < p.MinOrderAmount {
		return ErrPromoMinOrder
	}
	if p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit {
		return ErrPromoLimitExceeded
	}
	return nil
}

// Discount computes the discount for a promo against an order total.
// Percentage promos are capped at MaxDiscount when set; fixed promos never
// exceed the order total.
func Discount(p *models.PromoCode, orderTotal float64) float64 {
	switch p.Type {
	case domain.PromoTypePercentage:
		d := round2(orderTotal * p.Value / 100)
		if p.MaxDiscount > 0 && d > p.MaxDiscount {
			d = p.MaxDiscount
		}
		return d
	case domain.PromoTypeFixed:
		return round2(math.Min(p.Value, orderTotal))
	default:
		return 0
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
