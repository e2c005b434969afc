package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"tavolo/internal/models"
	"tavolo/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. The name is derived from the
// test so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Franchise{},
		&models.Location{},
		&models.User{},
		&models.PointsTransaction{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.PrivateDiningRequest{},
		&models.PromoCode{},
		&models.PromoRedemption{},
		&models.GiftCard{},
		&models.GiftCardTransaction{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.PosSyncLog{},
		&models.AuditLog{},
		&models.Cart{},
		&models.CartItem{},
		&models.EmailTemplate{},
		&models.MenuItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeMailer records sends and can be told to fail the next n sends.
type fakeMailer struct {
	sent     []fakeEmail
	failNext int
}

type fakeEmail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.failNext > 0 {
		m.failNext--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, fakeEmail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func newTemplateService(db *gorm.DB) *TemplateService {
	return NewTemplateService(repository.NewTemplateRepository(db), nil, zap.NewNop())
}

func newAuditService(db *gorm.DB) *AuditService {
	return NewAuditService(repository.NewAuditLogRepository(db), zap.NewNop())
}
