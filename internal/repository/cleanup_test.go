package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"tavolo/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestDeleteInBatches(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository(db)

	old := time.Now().AddDate(0, 0, -120)
	recent := time.Now().AddDate(0, 0, -10)
	// more than one batch of stale rows plus some that must survive
	for i := 0; i < cleanupBatchSize+50; i++ {
		if err := db.Create(&models.AuditLog{Action: "test.old", Actor: "system", CreatedAt: old}).Error; err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 20; i++ {
		if err := db.Create(&models.AuditLog{Action: "test.recent", Actor: "system", CreatedAt: recent}).Error; err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := repo.DeleteOlderThan(time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != int64(cleanupBatchSize+50) {
		t.Errorf("deleted = %d, want %d", deleted, cleanupBatchSize+50)
	}

	var remaining int64
	db.Model(&models.AuditLog{}).Count(&remaining)
	if remaining != 20 {
		t.Errorf("remaining = %d, want 20", remaining)
	}

	// a second pass finds nothing
	deleted, err = repo.DeleteOlderThan(time.Now().AddDate(0, 0, -90))
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 0 {
		t.Errorf("second pass deleted = %d, want 0", deleted)
	}
}

func TestListFilterLimits(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	fid := uint(1)
	other := uint(2)
	for i := 0; i < 150; i++ {
		o := &models.Order{Subtotal: 10, Total: 10, Status: "pending", FranchiseID: &fid}
		if i%3 == 0 {
			o.FranchiseID = &other
			o.Status = "completed"
		}
		if err := db.Create(o).Error; err != nil {
			t.Fatal(err)
		}
	}

	out, err := repo.List(ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != defaultListLimit {
		t.Errorf("default list length = %d, want %d", len(out), defaultListLimit)
	}

	out, err = repo.List(ListFilter{FranchiseID: &other, Status: "completed"})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 50 {
		t.Errorf("filtered list length = %d, want 50", len(out))
	}
	for _, o := range out {
		if o.Status != "completed" || *o.FranchiseID != other {
			t.Fatalf("row escaped the filter: %+v", o)
		}
	}

	out, err = repo.List(ListFilter{Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 5 {
		t.Errorf("explicit limit length = %d, want 5", len(out))
	}
}
