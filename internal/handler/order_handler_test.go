package handler

import (
	"fmt"
	"net/http"
	"testing"

	"tavolo/internal/domain"
	"tavolo/internal/models"
	"tavolo/internal/service"
)

func seedMenu(t *testing.T, d *testDeps) (pizza, pasta models.MenuItem) {
	t.Helper()
	pizza = models.MenuItem{Name: "Margherita Pizza", Category: "mains", Price: 14.50, Available: true}
	pasta = models.MenuItem{Name: "Tagliatelle al Ragu", Category: "mains", Price: 18.00, Available: false}
	for _, mi := range []*models.MenuItem{&pizza, &pasta} {
		if err := d.db.Create(mi).Error; err != nil {
			t.Fatal(err)
		}
	}
	return pizza, pasta
}

func TestCreateOrderPricesFromMenu(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	pizza, _ := seedMenu(t, d)

	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_item_id": pizza.ID, "quantity": 2},
		},
		"customer_type": "takeout",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	order := decodeBody(t, w)["order"].(map[string]interface{})
	if got := order["subtotal"].(float64); got != 29.00 {
		t.Errorf("subtotal = %v, want 29.00", got)
	}
	// 8.25% tax on the discounted subtotal
	if got := order["tax"].(float64); got != 2.39 {
		t.Errorf("tax = %v, want 2.39", got)
	}
	if got := order["total"].(float64); got != 31.39 {
		t.Errorf("total = %v, want 31.39", got)
	}
	if got := order["status"].(string); got != domain.OrderStatusPending {
		t.Errorf("status = %s, want pending", got)
	}
}

func TestCreateOrderRejectsUnknownAndUnavailableItems(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	_, pasta := seedMenu(t, d)

	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": 9999, "quantity": 1}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown item status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item_id": pasta.ID, "quantity": 1}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unavailable item status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty order status = %d, want 400", w.Code)
	}
}

func TestCreateOrderWithPromo(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	pizza, _ := seedMenu(t, d)
	if err := d.promoRepo.Create(&models.PromoCode{
		Code: "SAVE20", Type: domain.PromoTypePercentage, Value: 20, Active: true,
	}); err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items":      []map[string]interface{}{{"menu_item_id": pizza.ID, "quantity": 2}},
		"promo_code": "SAVE20",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	order := decodeBody(t, w)["order"].(map[string]interface{})
	if got := order["discount"].(float64); got != 5.80 { // 20% of 29.00
		t.Errorf("discount = %v, want 5.80", got)
	}
	if got := order["promo_code"].(string); got != "SAVE20" {
		t.Errorf("promo_code = %s", got)
	}
	// tax applies after the discount: (29.00 - 5.80) * 0.0825 = 1.91
	if got := order["tax"].(float64); got != 1.91 {
		t.Errorf("tax = %v, want 1.91", got)
	}

	p, err := d.promoRepo.GetByCode("SAVE20")
	if err != nil {
		t.Fatal(err)
	}
	if p.UsageCount != 1 {
		t.Errorf("usage_count = %d, want 1", p.UsageCount)
	}

	// the redemption record must point back at the order it discounted
	orderID := uint(order["id"].(float64))
	var red models.PromoRedemption
	if err := d.db.Where("promo_code = ?", "SAVE20").First(&red).Error; err != nil {
		t.Fatal(err)
	}
	if red.OrderID == nil || *red.OrderID != orderID {
		t.Errorf("redemption order_id = %v, want %d", red.OrderID, orderID)
	}
}

func TestCreateOrderRejectsBadPromo(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	pizza, _ := seedMenu(t, d)

	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items":      []map[string]interface{}{{"menu_item_id": pizza.ID, "quantity": 1}},
		"promo_code": "NOPE",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	// no order row may exist after a rejected promo
	var count int64
	d.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("orders persisted = %d, want 0", count)
	}
}

func TestCreateOrderWithGiftCard(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	pizza, _ := seedMenu(t, d)
	card, err := d.giftcardSvc.Create(service.CreateGiftCardInput{
		RecipientEmail: "nia@example.com",
		Amount:         10,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items":           []map[string]interface{}{{"menu_item_id": pizza.ID, "quantity": 1}},
		"gift_code":       card.GiftCode,
		"gift_card_email": "nia@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	order := decodeBody(t, w)["order"].(map[string]interface{})
	// 14.50 + 8.25% tax = 15.70, minus the 10.00 card
	if got := order["total"].(float64); got != 5.70 {
		t.Errorf("total = %v, want 5.70", got)
	}

	// the debit on the card ledger must point back at the order it paid
	orderID := uint(order["id"].(float64))
	var txn models.GiftCardTransaction
	if err := d.db.Where("gift_card_id = ?", card.ID).First(&txn).Error; err != nil {
		t.Fatal(err)
	}
	if txn.OrderID == nil || *txn.OrderID != orderID {
		t.Errorf("gift card transaction order_id = %v, want %d", txn.OrderID, orderID)
	}
	if txn.Amount != 10 {
		t.Errorf("debited = %v, want 10", txn.Amount)
	}
}

// A gift card failure after the promo slot was claimed must roll everything
// back: no order row, no redemption, the usage count released, the card
// untouched.
func TestCreateOrderGiftCardFailureRollsBackPromo(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	pizza, _ := seedMenu(t, d)
	if err := d.promoRepo.Create(&models.PromoCode{
		Code: "SAVE20", Type: domain.PromoTypePercentage, Value: 20, Active: true, UsageLimit: 1,
	}); err != nil {
		t.Fatal(err)
	}
	card, err := d.giftcardSvc.Create(service.CreateGiftCardInput{
		RecipientEmail: "nia@example.com",
		Amount:         10,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items":           []map[string]interface{}{{"menu_item_id": pizza.ID, "quantity": 2}},
		"promo_code":      "SAVE20",
		"gift_code":       card.GiftCode,
		"gift_card_email": "wrong@example.com",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body = %s", w.Code, w.Body.String())
	}

	var orders, redemptions, debits int64
	d.db.Model(&models.Order{}).Count(&orders)
	d.db.Model(&models.PromoRedemption{}).Count(&redemptions)
	d.db.Model(&models.GiftCardTransaction{}).Count(&debits)
	if orders != 0 || redemptions != 0 || debits != 0 {
		t.Errorf("rows after rollback: orders=%d redemptions=%d debits=%d, want all 0", orders, redemptions, debits)
	}
	p, err := d.promoRepo.GetByCode("SAVE20")
	if err != nil {
		t.Fatal(err)
	}
	if p.UsageCount != 0 {
		t.Errorf("usage_count = %d, want 0 after rollback", p.UsageCount)
	}

	// the released slot is still redeemable
	w = doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items":      []map[string]interface{}{{"menu_item_id": pizza.ID, "quantity": 2}},
		"promo_code": "SAVE20",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("retry status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCreateOrderRejectsOverdrawnGiftCard(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	pizza, _ := seedMenu(t, d)
	card, err := d.giftcardSvc.Create(service.CreateGiftCardInput{
		RecipientEmail: "nia@example.com",
		Amount:         5,
	})
	if err != nil {
		t.Fatal(err)
	}

	// total 15.70 exceeds the 5.00 balance: the order is refused and the
	// rollback leaves no order row and the balance untouched
	w := doJSON(t, r, "POST", "/api/v1/orders", map[string]interface{}{
		"items":           []map[string]interface{}{{"menu_item_id": pizza.ID, "quantity": 1}},
		"gift_code":       card.GiftCode,
		"gift_card_email": "nia@example.com",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", w.Code, w.Body.String())
	}

	var orders int64
	d.db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Errorf("orders persisted = %d, want 0", orders)
	}
	fresh, err := d.giftcardSvc.Balance("nia@example.com", card.GiftCode)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.RemainingAmount != 5 {
		t.Errorf("remaining = %v, want 5 after rollback", fresh.RemainingAmount)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()

	user := &models.User{Name: "Ava", Email: "ava@example.com", Role: domain.RoleCustomer, Status: domain.UserStatusActive}
	if err := d.db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	order := &models.Order{UserID: &user.ID, Subtotal: 40, Total: 43.30, Status: domain.OrderStatusPending}
	if err := d.db.Create(order).Error; err != nil {
		t.Fatal(err)
	}
	path := fmt.Sprintf("/api/v1/staff/orders/%d/status", order.ID)

	// illegal transition is refused
	w := doJSON(t, r, "PATCH", path, map[string]string{"status": "bogus"})
	if w.Code != http.StatusConflict {
		t.Fatalf("bogus transition status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, "PATCH", path, map[string]string{"status": domain.OrderStatusPreparing})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// completed credits loyalty points for the order total
	w = doJSON(t, r, "PATCH", path, map[string]string{"status": domain.OrderStatusCompleted})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var fresh models.User
	d.db.First(&fresh, user.ID)
	if fresh.LoyaltyPoints != 43 {
		t.Errorf("loyalty points = %d, want 43", fresh.LoyaltyPoints)
	}
	if fresh.OrderCount != 1 {
		t.Errorf("order count = %d, want 1", fresh.OrderCount)
	}

	// completed is final
	w = doJSON(t, r, "PATCH", path, map[string]string{"status": domain.OrderStatusCancelled})
	if w.Code != http.StatusConflict {
		t.Errorf("final transition status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, "PATCH", "/api/v1/staff/orders/9999/status", map[string]string{"status": domain.OrderStatusPreparing})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order status = %d, want 404", w.Code)
	}
}

func TestGetOrder(t *testing.T) {
	d := newTestDeps(t)
	r := d.orderRouter()
	order := &models.Order{Subtotal: 10, Total: 10.83, Status: domain.OrderStatusPending}
	if err := d.db.Create(order).Error; err != nil {
		t.Fatal(err)
	}
	w := doJSON(t, r, "GET", fmt.Sprintf("/api/v1/orders/%d", order.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/v1/orders/notanid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/v1/orders/424242", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order status = %d, want 404", w.Code)
	}
}
