package handler

import (
	"net/http"
	"testing"
	"time"

	"tavolo/internal/domain"
	"tavolo/internal/models"
)

func promoRouter(d *testDeps) http.Handler {
	h := NewPromoHandler(d.promoRepo, d.promoSvc, d.auditSvc, d.log)
	r := newGinRouter()
	r.POST("/api/v1/promos/validate", h.Validate)
	r.POST("/api/v1/promos/redeem", h.Redeem)
	r.GET("/api/v1/admin/promos", h.List)
	r.POST("/api/v1/admin/promos", h.Create)
	r.GET("/api/v1/admin/promos/usage-stats", h.UsageStats)
	return r
}

func TestValidatePromoEndpoint(t *testing.T) {
	d := newTestDeps(t)
	r := promoRouter(d)
	past := time.Now().Add(-time.Hour)
	seed := []models.PromoCode{
		{Code: "SAVE20", Type: domain.PromoTypePercentage, Value: 20, MaxDiscount: 15, Active: true},
		{Code: "BYGONE", Type: domain.PromoTypeFixed, Value: 5, Active: true, ExpiresAt: &past},
	}
	for i := range seed {
		if err := d.promoRepo.Create(&seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	cases := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
	}{
		{"valid", map[string]interface{}{"code": "SAVE20", "order_total": 50}, http.StatusOK},
		{"unknown code", map[string]interface{}{"code": "NOPE", "order_total": 50}, http.StatusNotFound},
		{"expired", map[string]interface{}{"code": "BYGONE", "order_total": 50}, http.StatusUnprocessableEntity},
		{"missing total", map[string]interface{}{"code": "SAVE20"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, "POST", "/api/v1/promos/validate", tc.body)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantStatus == http.StatusOK {
				body := decodeBody(t, w)
				if body["valid"] != true {
					t.Error("expected valid=true")
				}
				if body["discount"].(float64) != 10 {
					t.Errorf("discount = %v, want 10", body["discount"])
				}
			}
		})
	}
}

func TestCreatePromoEndpoint(t *testing.T) {
	d := newTestDeps(t)
	r := promoRouter(d)

	w := doJSON(t, r, "POST", "/api/v1/admin/promos", map[string]interface{}{
		"code": "  spring15 ", "type": "percentage", "value": 15,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	promo := decodeBody(t, w)["promo"].(map[string]interface{})
	if promo["code"] != "SPRING15" { // trimmed and uppercased
		t.Errorf("code = %v", promo["code"])
	}

	// duplicate code
	w = doJSON(t, r, "POST", "/api/v1/admin/promos", map[string]interface{}{
		"code": "SPRING15", "type": "percentage", "value": 10,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}

	// invalid type
	w = doJSON(t, r, "POST", "/api/v1/admin/promos", map[string]interface{}{
		"code": "BADTYPE", "type": "bogo", "value": 10,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d, want 400", w.Code)
	}
}

func TestPromoUsageStatsEndpoint(t *testing.T) {
	d := newTestDeps(t)
	r := promoRouter(d)
	if err := d.promoRepo.Create(&models.PromoCode{Code: "SAVE20", Type: domain.PromoTypePercentage, Value: 20, Active: true}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		w := doJSON(t, r, "POST", "/api/v1/promos/redeem", map[string]interface{}{
			"code": "SAVE20", "order_total": 100,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("redeem %d status = %d, body = %s", i, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, "GET", "/api/v1/admin/promos/usage-stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	codes := body["codes"].([]interface{})
	if len(codes) != 1 {
		t.Fatalf("codes = %d, want 1", len(codes))
	}
	row := codes[0].(map[string]interface{})
	if row["redemptions"].(float64) != 3 {
		t.Errorf("redemptions = %v, want 3", row["redemptions"])
	}
	if row["total_savings"].(float64) != 60 {
		t.Errorf("total_savings = %v, want 60", row["total_savings"])
	}
}
