package service

import (
	"errors"
	"testing"
	"time"

	"tavolo/config"
	"tavolo/internal/auth"
	"tavolo/internal/domain"
	"tavolo/internal/repository"

	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "tavolo-test",
		},
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *config.Config, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	return NewAuthService(cfg, repository.NewUserRepository(db)), cfg, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, cfg, _ := newAuthFixture(t)

	u, access, refresh, err := svc.Register("Ava Chen", "ava@example.com", "hunter2hunter2", nil, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != domain.RoleCustomer {
		t.Errorf("role = %s, want CUSTOMER", u.Role)
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter2hunter2" {
		t.Error("password was not hashed")
	}
	if access == "" || refresh == "" {
		t.Fatal("expected both tokens")
	}

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != u.Email {
		t.Errorf("claims = %+v", claims)
	}

	// duplicate email
	if _, _, _, err := svc.Register("Other", "ava@example.com", "hunter2hunter2", nil, nil); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// login round trip
	if _, _, _, err := svc.Login("ava@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, _, _, err := svc.Login("ava@example.com", "wrong"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("expected ErrInvalidCreds, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("expected ErrInvalidCreds for unknown email, got %v", err)
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, _, refresh, err := svc.Register("Ava", "ava@example.com", "hunter2hunter2", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	access, newRefresh, err := svc.RefreshToken(refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access == "" || newRefresh == "" {
		t.Fatal("expected fresh token pair")
	}
	if _, _, err := svc.RefreshToken("not-a-token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoginWithGoogle(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	u, _, _, isNew, err := svc.LoginWithGoogle("google-123", "ava@example.com", "Ava Chen")
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if !isNew {
		t.Error("first google login should create the account")
	}
	if u.GoogleID == nil || *u.GoogleID != "google-123" {
		t.Error("google id not stored")
	}

	again, _, _, isNew, err := svc.LoginWithGoogle("google-123", "ava@example.com", "Ava Chen")
	if err != nil {
		t.Fatal(err)
	}
	if isNew || again.ID != u.ID {
		t.Errorf("second login: isNew=%v id=%d want id=%d", isNew, again.ID, u.ID)
	}
}

func TestLoginWithGoogleLinksExistingAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	registered, _, _, err := svc.Register("Ava", "ava@example.com", "hunter2hunter2", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	linked, _, _, isNew, err := svc.LoginWithGoogle("google-456", "ava@example.com", "Ava")
	if err != nil {
		t.Fatal(err)
	}
	if isNew {
		t.Error("linking must not report a new account")
	}
	if linked.ID != registered.ID {
		t.Errorf("linked id = %d, want %d", linked.ID, registered.ID)
	}
	if linked.GoogleID == nil || *linked.GoogleID != "google-456" {
		t.Error("google id not linked")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	u, _, _, err := svc.Register("Ava", "ava@example.com", "hunter2hunter2", nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ChangePassword(u.ID, "wrong", "newpassword1"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("expected ErrInvalidCreds, got %v", err)
	}
	if err := svc.ChangePassword(u.ID, "hunter2hunter2", "newpassword1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, _, err := svc.Login("ava@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// google-only accounts have no password to verify
	g, _, _, _, err := svc.LoginWithGoogle("google-789", "g@example.com", "G")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ChangePassword(g.ID, "anything", "newpassword1"); err == nil {
		t.Fatal("expected error for passwordless account")
	}
}
