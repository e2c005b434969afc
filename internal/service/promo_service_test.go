package service

import (
	"errors"
	"testing"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"
)

func newPromoFixture(t *testing.T) (*PromoService, *repository.PromoRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewPromoRepository(db)
	return NewPromoService(repo), repo
}

func TestPromoValidate(t *testing.T) {
	svc, repo := newPromoFixture(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	seed := []models.PromoCode{
		{Code: "SAVE20", Type: domain.PromoTypePercentage, Value: 20, Active: true},
		{Code: "CAPPED", Type: domain.PromoTypePercentage, Value: 20, MaxDiscount: 15, Active: true},
		{Code: "TENOFF", Type: domain.PromoTypeFixed, Value: 10, MinOrderAmount: 40, Active: true},
		{Code: "BIGFIX", Type: domain.PromoTypeFixed, Value: 30, Active: true},
		{Code: "PAUSED", Type: domain.PromoTypePercentage, Value: 10, Active: false},
		{Code: "BYGONE", Type: domain.PromoTypePercentage, Value: 10, Active: true, ExpiresAt: &past},
		{Code: "SOLDOUT", Type: domain.PromoTypeFixed, Value: 5, UsageLimit: 3, UsageCount: 3, Active: true, ExpiresAt: &future},
	}
	for i := range seed {
		if err := repo.Create(&seed[i]); err != nil {
			t.Fatalf("seed promo %s: %v", seed[i].Code, err)
		}
	}

	cases := []struct {
		name         string
		code         string
		orderTotal   float64
		wantErr      error
		wantDiscount float64
	}{
		{name: "percentage", code: "SAVE20", orderTotal: 100, wantDiscount: 20},
		{name: "lowercase code accepted", code: "save20", orderTotal: 50, wantDiscount: 10},
		{name: "percentage capped at max discount", code: "CAPPED", orderTotal: 200, wantDiscount: 15},
		{name: "fixed", code: "TENOFF", orderTotal: 60, wantDiscount: 10},
		{name: "fixed never exceeds order total", code: "BIGFIX", orderTotal: 20, wantDiscount: 20},
		{name: "unknown code", code: "NOPE", orderTotal: 50, wantErr: ErrPromoNotFound},
		{name: "inactive", code: "PAUSED", orderTotal: 50, wantErr: ErrPromoInactive},
		{name: "expired", code: "BYGONE", orderTotal: 50, wantErr: ErrPromoExpired},
		{name: "below minimum order", code: "TENOFF", orderTotal: 39.99, wantErr: ErrPromoMinOrder},
		{name: "usage limit reached", code: "SOLDOUT", orderTotal: 50, wantErr: ErrPromoLimitExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.Validate(tc.code, tc.orderTotal)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.Valid {
				t.Error("expected valid result")
			}
			if res.Discount != tc.wantDiscount {
				t.Errorf("discount = %v, want %v", res.Discount, tc.wantDiscount)
			}
		})
	}
}

func TestPromoValidateDoesNotConsumeUse(t *testing.T) {
	svc, repo := newPromoFixture(t)
	if err := repo.Create(&models.PromoCode{Code: "ONCE", Type: domain.PromoTypeFixed, Value: 5, UsageLimit: 1, Active: true}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.Validate("ONCE", 50); err != nil {
			t.Fatalf("validate %d: %v", i, err)
		}
	}
	p, err := repo.GetByCode("ONCE")
	if err != nil {
		t.Fatal(err)
	}
	if p.UsageCount != 0 {
		t.Errorf("usage_count = %d after validations, want 0", p.UsageCount)
	}
}

func TestPromoRedeem(t *testing.T) {
	svc, repo := newPromoFixture(t)
	if err := repo.Create(&models.PromoCode{Code: "LAST", Type: domain.PromoTypePercentage, Value: 10, UsageLimit: 1, Active: true}); err != nil {
		t.Fatal(err)
	}

	red, err := svc.Redeem("LAST", 80, nil, nil)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if red.DiscountApplied != 8 {
		t.Errorf("discount applied = %v, want 8", red.DiscountApplied)
	}
	if red.PromoCode != "LAST" {
		t.Errorf("promo code = %s, want LAST", red.PromoCode)
	}

	p, err := repo.GetByCode("LAST")
	if err != nil {
		t.Fatal(err)
	}
	if p.UsageCount != 1 {
		t.Errorf("usage_count = %d, want 1", p.UsageCount)
	}

	// the single slot is taken; the next redemption must lose
	if _, err := svc.Redeem("LAST", 80, nil, nil); !errors.Is(err, ErrPromoLimitExceeded) {
		t.Fatalf("expected ErrPromoLimitExceeded, got %v", err)
	}

	var redemptions int64
	if err := repo.DB().Model(&models.PromoRedemption{}).Count(&redemptions).Error; err != nil {
		t.Fatal(err)
	}
	if redemptions != 1 {
		t.Errorf("redemption rows = %d, want 1", redemptions)
	}
}

func TestPromoRedeemUnlimited(t *testing.T) {
	svc, repo := newPromoFixture(t)
	if err := repo.Create(&models.PromoCode{Code: "FOREVER", Type: domain.PromoTypeFixed, Value: 2, Active: true}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, err := svc.Redeem("FOREVER", 30, nil, nil); err != nil {
			t.Fatalf("redeem %d: %v", i, err)
		}
	}
	p, _ := repo.GetByCode("FOREVER")
	if p.UsageCount != 5 {
		t.Errorf("usage_count = %d, want 5", p.UsageCount)
	}
}

func TestDiscountRounding(t *testing.T) {
	p := &models.PromoCode{Type: domain.PromoTypePercentage, Value: 15}
	if got := Discount(p, 33.33); got != 5.00 {
		t.Errorf("Discount = %v, want 5.00", got)
	}
	if got := Discount(&models.PromoCode{Type: "bogus"}, 100); got != 0 {
		t.Errorf("unknown type discount = %v, want 0", got)
	}
}
