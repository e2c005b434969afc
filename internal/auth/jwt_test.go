package auth

import (
	"testing"
	"time"

	"tavolo/config"
)

func jwtConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "tavolo-test",
	}
}

func TestGeneratePairRoundTrip(t *testing.T) {
	cfg := jwtConfig()
	access, refresh, err := GeneratePair(cfg, 42, "mara@example.com", "STAFF")
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseAccessToken(cfg, access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Email != "mara@example.com" || claims.Role != "STAFF" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "tavolo-test" {
		t.Errorf("issuer = %q", claims.Issuer)
	}

	userID, err := ParseRefreshToken(cfg, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if userID != 42 {
		t.Errorf("refresh user id = %d, want 42", userID)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	cfg := jwtConfig()
	access, refresh, err := GeneratePair(cfg, 7, "mara@example.com", "ADMIN")
	if err != nil {
		t.Fatal(err)
	}

	// each token kind is signed with its own secret
	if _, err := ParseAccessToken(cfg, refresh); err != ErrInvalidToken {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := ParseRefreshToken(cfg, access); err != ErrInvalidToken {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestParseRejectsGarbageAndTampering(t *testing.T) {
	cfg := jwtConfig()
	if _, err := ParseAccessToken(cfg, "not.a.token"); err != ErrInvalidToken {
		t.Errorf("garbage access token: %v", err)
	}
	if _, err := ParseRefreshToken(cfg, "not.a.token"); err != ErrInvalidToken {
		t.Errorf("garbage refresh token: %v", err)
	}

	access, _, err := GeneratePair(cfg, 7, "mara@example.com", "ADMIN")
	if err != nil {
		t.Fatal(err)
	}
	other := jwtConfig()
	other.AccessSecret = "someone-else"
	if _, err := ParseAccessToken(other, access); err != ErrInvalidToken {
		t.Errorf("token with wrong secret accepted: %v", err)
	}
}
