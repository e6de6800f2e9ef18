package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/storage"
)

func newTestService() (*Service, *storage.Memory) {
	store := storage.NewMemory()
	return NewService(store, NewTokenManager("test-secret", time.Hour)), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "ada@example.com", "hunter22", "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("registered user has no id")
	}
	if !user.HasPassword() {
		t.Error("registered user has no password credential")
	}
	if user.PasswordHash != nil && *user.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}

	logged, err := svc.Login(ctx, "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned wrong user: %q", logged.ID)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "first", "", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(ctx, "ada@example.com", "second", "", "")
	var userErr *apperrors.UserError
	if !errors.As(err, &userErr) || userErr.Status != 409 {
		t.Fatalf("want 409 conflict, got %v", err)
	}
}

func TestLoginRejections(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "ada@example.com", "hunter22", "", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// An OAuth-only account has no password credential.
	googleID := "google-sub-1"
	oauthEmail := "oauth@example.com"
	err := store.CreateUser(ctx, &models.User{
		ID:       googleID,
		Email:    &oauthEmail,
		GoogleID: &googleID,
	})
	if err != nil {
		t.Fatalf("seed oauth user: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "wrong"},
		{"unknown email", "nobody@example.com", "hunter22"},
		{"oauth-only account", "oauth@example.com", "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			var userErr *apperrors.UserError
			if !errors.As(err, &userErr) || userErr.Status != 401 {
				t.Fatalf("want 401, got %v", err)
			}
		})
	}
}

func TestLoginWithGoogleCreatesOnce(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	profile := &GoogleProfile{
		ID:         "google-sub-9",
		Email:      "g@example.com",
		GivenName:  "Grace",
		FamilyName: "Hopper",
	}

	first, err := svc.LoginWithGoogle(ctx, profile)
	if err != nil {
		t.Fatalf("first google login failed: %v", err)
	}
	if first.ID != profile.ID {
		t.Errorf("user id = %q, want google subject", first.ID)
	}
	if first.HasPassword() {
		t.Error("oauth user should have no password credential")
	}

	second, err := svc.LoginWithGoogle(ctx, profile)
	if err != nil {
		t.Fatalf("second google login failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("second login created a different user")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("sekrit")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !CheckPassword("sekrit", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
