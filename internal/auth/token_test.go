package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 5)
	token, expiresAt, err := tm.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatal("expected expiry to be set")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("claims.UserID = %q", claims.UserID)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 5).GenerateToken("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b", 5).ParseToken(token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("secret", 5).ParseToken("not-a-token"); err == nil {
		t.Fatal("expected parse to fail")
	}
}
