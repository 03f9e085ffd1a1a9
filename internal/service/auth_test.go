package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}

	users := &mockUserRepo{}
	svc := NewAuthService(users, auth.NewPasswordServiceForTest(bcrypt.MinCost), tokens, newTestLogger())
	return svc, users
}

func TestRegister(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.ID == "" {
		t.Error("expected user ID to be assigned")
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.User.PasswordHash == "password123" {
		t.Error("password must not be stored in plaintext")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"username too short", "ab", "", "password123"},
		{"username too long", "abcdefghijklmnopqrstuvwxyz_0123", "", "password123"},
		{"username uppercase", "Alice", "", "password123"},
		{"username with spaces", "a lice", "", "password123"},
		{"bad email", "alice", "not-an-email", "password123"},
		{"password too short", "alice", "", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "", "password123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "", "password456")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
	if result.User.Username != "alice" {
		t.Errorf("expected username alice, got %q", result.User.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login(context.Background(), "alice", "wrong-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	// Same error as a wrong password so responses don't reveal which
	// usernames exist.
	_, err := svc.Login(context.Background(), "nobody", "password123")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLogin_GitHubOnlyAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	gh := &auth.GitHubUser{ID: 42, Login: "octocat", Email: "octo@example.com"}
	if _, err := svc.LoginOrRegisterGitHub(context.Background(), gh); err != nil {
		t.Fatalf("LoginOrRegisterGitHub: %v", err)
	}

	_, err := svc.Login(context.Background(), "octocat", "anything")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("expected unauthorized for passwordless account, got %v", err)
	}
}

func TestLoginOrRegisterGitHub_ExistingAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	gh := &auth.GitHubUser{ID: 42, Login: "octocat", Email: "octo@example.com"}
	first, err := svc.LoginOrRegisterGitHub(context.Background(), gh)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}

	gh.Email = "new@example.com"
	second, err := svc.LoginOrRegisterGitHub(context.Background(), gh)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("expected same account on repeat login, got %q and %q", first.User.ID, second.User.ID)
	}
}

func TestMe(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), "alice", "", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	me, err := svc.Me(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("expected alice, got %q", me.Username)
	}
}
