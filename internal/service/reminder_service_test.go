package service

import (
	"strings"
	"testing"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReminderFixture(t *testing.T) (*ReminderService, *fakeMailer, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	mailer := &fakeMailer{}
	svc := NewReminderService(
		repository.NewCartRepository(db),
		repository.NewReservationRepository(db),
		newTemplateService(db),
		mailer,
		newAuditService(db),
		zap.NewNop(),
	)
	return svc, mailer, db
}

// backdateCart sets updated_at directly, bypassing gorm's auto-touch.
func backdateCart(t *testing.T, db *gorm.DB, id uint, at time.Time) {
	t.Helper()
	if err := db.Model(&models.Cart{}).Where("id = ?", id).UpdateColumn("updated_at", at).Error; err != nil {
		t.Fatal(err)
	}
}

func seedCart(t *testing.T, db *gorm.DB, email string, items int) *models.Cart {
	t.Helper()
	cart := &models.Cart{Email: email}
	for i := 0; i < items; i++ {
		cart.Items = append(cart.Items, models.CartItem{Name: "Margherita Pizza", Quantity: 1, UnitPrice: 14.50})
	}
	if err := db.Create(cart).Error; err != nil {
		t.Fatal(err)
	}
	return cart
}

func TestNudgeAbandonedCarts(t *testing.T) {
	svc, mailer, db := newReminderFixture(t)
	now := time.Now()
	old := now.Add(-7 * time.Hour)

	stale := seedCart(t, db, "ava@example.com", 2)
	backdateCart(t, db, stale.ID, old)

	empty := seedCart(t, db, "empty@example.com", 0)
	backdateCart(t, db, empty.ID, old)

	anonymous := seedCart(t, db, "", 1)
	backdateCart(t, db, anonymous.ID, old)

	seedCart(t, db, "fresh@example.com", 1) // updated now, not abandoned yet

	res, err := svc.NudgeAbandonedCarts(now)
	if err != nil {
		t.Fatalf("nudge: %v", err)
	}
	if res.Selected != 1 || res.Sent != 1 || res.Failed != 0 {
		t.Fatalf("result = %+v, want selected=1 sent=1 failed=0", res)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "ava@example.com" {
		t.Fatalf("sent = %+v", mailer.sent)
	}
	if !strings.Contains(mailer.sent[0].Body, "2 item(s)") {
		t.Errorf("body = %q", mailer.sent[0].Body)
	}

	// the flagged cart is not selected again
	res, err = svc.NudgeAbandonedCarts(now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Selected != 0 {
		t.Errorf("second run selected = %d, want 0", res.Selected)
	}
}

func TestNudgeAbandonedCartsRetriesFailedSend(t *testing.T) {
	svc, mailer, db := newReminderFixture(t)
	now := time.Now()

	cart := seedCart(t, db, "ava@example.com", 1)
	backdateCart(t, db, cart.ID, now.Add(-8*time.Hour))

	mailer.failNext = 1
	res, err := svc.NudgeAbandonedCarts(now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 1 || res.Sent != 0 {
		t.Fatalf("result = %+v, want failed=1 sent=0", res)
	}

	// the flag was not written, so the next run picks the cart up again
	res, err = svc.NudgeAbandonedCarts(now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Sent != 1 {
		t.Fatalf("retry result = %+v, want sent=1", res)
	}
}

func TestSendReservationReminders(t *testing.T) {
	svc, mailer, db := newReminderFixture(t)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	seed := []models.Reservation{
		{Name: "Ava", Email: "ava@example.com", Date: today, Time: "19:30", Guests: 2, Status: domain.ReservationStatusConfirmed},
		{Name: "Ben", Email: "ben@example.com", Date: today, Time: "20:00", Guests: 4, Status: domain.ReservationStatusPending},
		{Name: "Cara", Email: "cara@example.com", Date: today.AddDate(0, 0, 2), Time: "18:00", Guests: 3, Status: domain.ReservationStatusConfirmed},
		{Name: "Dee", Email: "dee@example.com", Date: today, Time: "21:00", Guests: 2, Status: domain.ReservationStatusConfirmed, ReminderSent: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	res, err := svc.SendReservationReminders(now)
	if err != nil {
		t.Fatalf("reminders: %v", err)
	}
	if res.Selected != 1 || res.Sent != 1 {
		t.Fatalf("result = %+v, want selected=1 sent=1", res)
	}
	if mailer.sent[0].To != "ava@example.com" {
		t.Errorf("sent to %s", mailer.sent[0].To)
	}
	if !strings.Contains(mailer.sent[0].Body, "19:30") {
		t.Errorf("body = %q", mailer.sent[0].Body)
	}

	res, err = svc.SendReservationReminders(now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Selected != 0 {
		t.Errorf("second run selected = %d, want 0", res.Selected)
	}
}
