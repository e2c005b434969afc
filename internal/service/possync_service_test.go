package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tavolo/config"
	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newPosFixture(t *testing.T, successRate float64) (*PosSyncService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := config.PosConfig{SuccessRate: successRate, MaxRetries: 3} // zero delays keep tests fast
	svc := NewPosSyncService(repository.NewPosRepository(db), cfg, zap.NewNop())
	svc.sleep = func(time.Duration) {}
	return svc, db
}

func TestSyncOrderSuccess(t *testing.T) {
	svc, db := newPosFixture(t, 1.0)

	entry, err := svc.SyncOrder(42, 99.50)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if entry.Status != domain.PosSyncStatusSuccess {
		t.Errorf("status = %s, want success", entry.Status)
	}
	if !strings.HasPrefix(entry.PosTransactionID, "POS-") {
		t.Errorf("pos transaction id = %q", entry.PosTransactionID)
	}
	if entry.ErrorMessage != "" {
		t.Errorf("error message = %q, want empty", entry.ErrorMessage)
	}

	var stored models.PosSyncLog
	if err := db.First(&stored, entry.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.OrderID != 42 || stored.Amount != 99.50 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestSyncOrderFailure(t *testing.T) {
	svc, _ := newPosFixture(t, 0.0)

	entry, err := svc.SyncOrder(42, 99.50)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if entry.Status != domain.PosSyncStatusFailed {
		t.Errorf("status = %s, want failed", entry.Status)
	}
	if entry.ErrorMessage == "" {
		t.Error("expected an error message on a failed sync")
	}
	if entry.PosTransactionID != "" {
		t.Errorf("pos transaction id = %q, want empty", entry.PosTransactionID)
	}
}

func TestRetrySync(t *testing.T) {
	svc, _ := newPosFixture(t, 0.0)
	entry, err := svc.SyncOrder(7, 20)
	if err != nil {
		t.Fatal(err)
	}

	// retries fail while the simulator never succeeds, then hit the cap
	for want := 1; want <= 3; want++ {
		retried, err := svc.RetrySync(entry.ID)
		if err != nil {
			t.Fatalf("retry %d: %v", want, err)
		}
		if retried.RetryCount != want {
			t.Errorf("retry_count = %d, want %d", retried.RetryCount, want)
		}
		if retried.Status != domain.PosSyncStatusFailed {
			t.Errorf("status = %s, want failed", retried.Status)
		}
	}
	if _, err := svc.RetrySync(entry.ID); !errors.Is(err, ErrRetryLimitReached) {
		t.Fatalf("expected ErrRetryLimitReached, got %v", err)
	}

	// a succeeding retry flips the same row and clears the error
	svc.cfg.SuccessRate = 1.0
	svc.cfg.MaxRetries = 10
	retried, err := svc.RetrySync(entry.ID)
	if err != nil {
		t.Fatalf("successful retry: %v", err)
	}
	if retried.Status != domain.PosSyncStatusSuccess {
		t.Errorf("status = %s, want success", retried.Status)
	}
	if retried.ErrorMessage != "" {
		t.Errorf("error message = %q, want cleared", retried.ErrorMessage)
	}

	if _, err := svc.RetrySync(entry.ID); !errors.Is(err, ErrSyncAlreadySucceeded) {
		t.Fatalf("expected ErrSyncAlreadySucceeded, got %v", err)
	}
}

func TestPosStats(t *testing.T) {
	svc, _ := newPosFixture(t, 1.0)
	for i := 0; i < 3; i++ {
		if _, err := svc.SyncOrder(uint(i+1), 10); err != nil {
			t.Fatal(err)
		}
	}
	svc.cfg.SuccessRate = 0.0
	if _, err := svc.SyncOrder(4, 10); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalSyncs != 4 || stats.Succeeded != 3 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.SuccessRate != 0.75 {
		t.Errorf("success rate = %v, want 0.75", stats.SuccessRate)
	}
	if stats.RevenueSynced != 30 {
		t.Errorf("revenue = %v, want 30", stats.RevenueSynced)
	}
}
