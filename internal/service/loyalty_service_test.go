package service

import (
	"errors"
	"testing"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"gorm.io/gorm"
)

func newLoyaltyFixture(t *testing.T) (*LoyaltyService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewLoyaltyService(db, repository.NewUserRepository(db), repository.NewRewardRepository(db))
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, points int) *models.User {
	t.Helper()
	u := &models.User{
		Name:          "Test Customer",
		Email:         "customer@example.com",
		Role:          domain.RoleCustomer,
		Status:        domain.UserStatusActive,
		LoyaltyPoints: points,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAdjustPoints(t *testing.T) {
	cases := []struct {
		name       string
		start      int
		action     string
		points     int
		wantErr    error
		wantAfter  int
		wantChange int
	}{
		{name: "add", start: 100, action: "add", points: 50, wantAfter: 150, wantChange: 50},
		{name: "subtract", start: 100, action: "subtract", points: 30, wantAfter: 70, wantChange: -30},
		{name: "subtract clamps at zero", start: 5, action: "subtract", points: 10, wantAfter: 0, wantChange: -10},
		{name: "unknown action", start: 100, action: "transfer", points: 10, wantErr: ErrUnknownPointsAction},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, db := newLoyaltyFixture(t)
			u := seedUser(t, db, tc.start)

			entry, err := svc.AdjustPoints(u.ID, tc.action, tc.points, "manual adjustment", "admin@tavolo.app")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.PointsBefore != tc.start {
				t.Errorf("points_before = %d, want %d", entry.PointsBefore, tc.start)
			}
			if entry.PointsAfter != tc.wantAfter {
				t.Errorf("points_after = %d, want %d", entry.PointsAfter, tc.wantAfter)
			}
			if entry.PointsChange != tc.wantChange {
				t.Errorf("points_change = %d, want %d", entry.PointsChange, tc.wantChange)
			}

			var fresh models.User
			if err := db.First(&fresh, u.ID).Error; err != nil {
				t.Fatal(err)
			}
			if fresh.LoyaltyPoints != tc.wantAfter {
				t.Errorf("stored balance = %d, want %d", fresh.LoyaltyPoints, tc.wantAfter)
			}
		})
	}
}

func TestRedeemReward(t *testing.T) {
	svc, db := newLoyaltyFixture(t)
	u := seedUser(t, db, 300)
	reward := &models.Reward{Title: "Free Dessert", PointCost: 150, Active: true}
	if err := db.Create(reward).Error; err != nil {
		t.Fatal(err)
	}

	red, err := svc.RedeemReward(u.ID, reward.ID, u.Email)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if red.PointsSpent != 150 {
		t.Errorf("points_spent = %d, want 150", red.PointsSpent)
	}

	var fresh models.User
	db.First(&fresh, u.ID)
	if fresh.LoyaltyPoints != 150 {
		t.Errorf("balance = %d, want 150", fresh.LoyaltyPoints)
	}

	// second redemption still affordable, third is not
	if _, err := svc.RedeemReward(u.ID, reward.ID, u.Email); err != nil {
		t.Fatalf("second redeem: %v", err)
	}
	if _, err := svc.RedeemReward(u.ID, reward.ID, u.Email); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	var ledger []models.PointsTransaction
	db.Where("user_id = ?", u.ID).Find(&ledger)
	if len(ledger) != 2 {
		t.Errorf("ledger entries = %d, want 2", len(ledger))
	}
}

func TestRedeemRewardInactive(t *testing.T) {
	svc, db := newLoyaltyFixture(t)
	u := seedUser(t, db, 1000)
	reward := &models.Reward{Title: "Retired Perk", PointCost: 100, Active: false}
	if err := db.Create(reward).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RedeemReward(u.ID, reward.ID, u.Email); !errors.Is(err, ErrRewardInactive) {
		t.Fatalf("expected ErrRewardInactive, got %v", err)
	}
}

func TestCreditForOrder(t *testing.T) {
	svc, db := newLoyaltyFixture(t)
	u := seedUser(t, db, 240)

	if err := svc.CreditForOrder(u.ID, 42.75, 7); err != nil {
		t.Fatalf("credit: %v", err)
	}

	var fresh models.User
	db.First(&fresh, u.ID)
	if fresh.LoyaltyPoints != 282 { // one point per whole currency unit
		t.Errorf("balance = %d, want 282", fresh.LoyaltyPoints)
	}
	if fresh.TotalSpent != 42.75 {
		t.Errorf("total_spent = %v, want 42.75", fresh.TotalSpent)
	}
	if fresh.OrderCount != 1 {
		t.Errorf("order_count = %d, want 1", fresh.OrderCount)
	}
	if fresh.Tier() != domain.TierSilver {
		t.Errorf("tier = %s, want %s", fresh.Tier(), domain.TierSilver)
	}

	var entry models.PointsTransaction
	if err := db.Where("user_id = ?", u.ID).First(&entry).Error; err != nil {
		t.Fatal(err)
	}
	if entry.PointsChange != 42 {
		t.Errorf("ledger change = %d, want 42", entry.PointsChange)
	}
	if entry.Actor != "system" {
		t.Errorf("actor = %s, want system", entry.Actor)
	}
}

func TestHistoryLimits(t *testing.T) {
	svc, db := newLoyaltyFixture(t)
	u := seedUser(t, db, 0)
	for i := 0; i < 60; i++ {
		if _, err := svc.AdjustPoints(u.ID, "add", 1, "drip", "admin"); err != nil {
			t.Fatal(err)
		}
	}
	out, err := svc.History(u.ID, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 50 {
		t.Errorf("default history length = %d, want 50", len(out))
	}
	out, err = svc.History(u.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 10 {
		t.Errorf("history length = %d, want 10", len(out))
	}
}
