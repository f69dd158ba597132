package services

import (
	"errors"
	"testing"

	"github.com/tmorell/chorus/internal/config"
	"github.com/tmorell/chorus/internal/utils"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	utils.SetJWTSecret("test-secret")
	db := newTestDB(t)
	return NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireHour: 24})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	reg, err := svc.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" {
		t.Error("no token issued")
	}
	if reg.User.Password == "correct horse" {
		t.Error("password stored in plaintext")
	}

	claims, err := utils.ParseToken(reg.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != reg.User.ID || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}

	login, err := svc.Login(&LoginRequest{Username: "alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user %d, expected %d", login.User.ID, reg.User.ID)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := newAuthService(t)

	req := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "passw0rd!"}
	if _, err := svc.Register(&req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(&req); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate: expected ErrConflict, got %v", err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "passw0rd!",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("wrong password: expected ErrAccessDenied, got %v", err)
	}

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "passw0rd!"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("unknown user: expected ErrAccessDenied, got %v", err)
	}
}

func TestAuthMe(t *testing.T) {
	svc := newAuthService(t)

	reg, err := svc.Register(&RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "passw0rd!",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	me, err := svc.Me(reg.User.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("Username = %q", me.Username)
	}

	if _, err := svc.Me(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}
}
