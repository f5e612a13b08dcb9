package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateAccessToken("user-1", []string{"admin", "editor"}, secret)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("expected subject user-1, got %s", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("expected roles carried, got %v", claims.Roles)
	}

	// Wrong secret must fail
	if _, err := ParseAccessToken(token, "other-secret"); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseAccessToken_Garbage(t *testing.T) {
	if _, err := ParseAccessToken("not.a.token", "secret"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestUserContextIsAdmin(t *testing.T) {
	admin := &UserContext{ID: "u1", Roles: []string{"editor", "admin"}}
	if !admin.IsAdmin() {
		t.Fatal("expected admin")
	}
	editor := &UserContext{ID: "u2", Roles: []string{"editor"}}
	if editor.IsAdmin() {
		t.Fatal("expected non-admin")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !CheckPassword("s3cret", string(hash)) {
		t.Fatal("expected match")
	}
	if CheckPassword("wrong", string(hash)) {
		t.Fatal("expected mismatch")
	}
}
