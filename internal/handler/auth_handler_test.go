package handler

import (
	"net/http"
	"testing"
	"time"

	"tavolo/config"
	"tavolo/internal/middleware"
	"tavolo/internal/repository"
	"tavolo/internal/service"
)

func authRouter(d *testDeps) (http.Handler, *config.Config) {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "tavolo-test",
		},
	}
	userRepo := repository.NewUserRepository(d.db)
	svc := service.NewAuthService(cfg, userRepo)
	h := NewAuthHandler(svc, userRepo, d.auditSvc, d.log)

	r := newGinRouter()
	r.POST("/api/v1/auth/register", h.Register)
	r.POST("/api/v1/auth/login", h.Login)
	r.POST("/api/v1/auth/refresh", h.Refresh)
	r.GET("/api/v1/me", middleware.AuthRequired(&cfg.JWT), h.Me)
	return r, cfg
}

func TestRegisterLoginAndMe(t *testing.T) {
	d := newTestDeps(t)
	r, _ := authRouter(d)

	w := doJSON(t, r, "POST", "/api/v1/auth/register", map[string]string{
		"name": "Ava Chen", "email": "ava@example.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	access, _ := body["access_token"].(string)
	if access == "" {
		t.Fatal("missing access token")
	}

	// short passwords are refused by validation
	w = doJSON(t, r, "POST", "/api/v1/auth/register", map[string]string{
		"name": "B", "email": "b@example.com", "password": "short",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short password status = %d, want 400", w.Code)
	}

	// duplicate email
	w = doJSON(t, r, "POST", "/api/v1/auth/register", map[string]string{
		"name": "Ava Again", "email": "ava@example.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}

	w = doJSON(t, r, "POST", "/api/v1/auth/login", map[string]string{
		"email": "ava@example.com", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}

	// authenticated profile carries the derived tier
	req := newAuthedRequest(t, "GET", "/api/v1/me", access)
	w = serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body = %s", w.Code, w.Body.String())
	}
	if tier := decodeBody(t, w)["tier"]; tier != "Bronze" {
		t.Errorf("tier = %v, want Bronze", tier)
	}

	// missing and garbage tokens are rejected by the middleware
	w = doJSON(t, r, "GET", "/api/v1/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}
	req = newAuthedRequest(t, "GET", "/api/v1/me", "not-a-token")
	w = serve(r, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", w.Code)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	d := newTestDeps(t)
	r, _ := authRouter(d)

	w := doJSON(t, r, "POST", "/api/v1/auth/register", map[string]string{
		"name": "Ava", "email": "ava@example.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusCreated {
		t.Fatal(w.Body.String())
	}
	refresh := decodeBody(t, w)["refresh_token"].(string)

	w = doJSON(t, r, "POST", "/api/v1/auth/refresh", map[string]string{"refresh_token": refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["access_token"].(string) == "" {
		t.Error("missing rotated access token")
	}

	w = doJSON(t, r, "POST", "/api/v1/auth/refresh", map[string]string{"refresh_token": "junk"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("junk refresh status = %d, want 401", w.Code)
	}
}
