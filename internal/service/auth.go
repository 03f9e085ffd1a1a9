package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"regexp"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/auth"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// AuthResult bundles what a successful login or registration produces: the
// account itself and a signed session token for the cookie.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"-"`
}

// AuthService handles registration, password login and GitHub OAuth login.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates a new account and signs the user in immediately.
// Usernames are lowercase alphanumeric with underscores; the repository
// enforces uniqueness case-insensitively.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ValidationFailed("username",
			"username may contain only lowercase letters, digits and underscores")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperror.ValidationFailed("email", "invalid email address")
		}
	}
	if l := len(password); l < MinPasswordLength || l > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies a username/password pair. Both an unknown username and a
// wrong password map to the same Unauthorized error so the response does not
// reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, err
	}

	// GitHub-only accounts have no password to check.
	if user.PasswordHash == "" {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))

	return &AuthResult{User: user, Token: token}, nil
}

// LoginOrRegisterGitHub signs in a GitHub user, creating a local account on
// first login.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	user := &model.User{
		Username:  gh.Login,
		Email:     gh.Email,
		GitHubID:  gh.ID,
		AvatarURL: gh.AvatarURL,
	}

	if err := s.users.UpsertGitHubUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	s.logger.Info("github login",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the account for an authenticated user ID.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// GetByUsername resolves a profile page's owner.
func (s *AuthService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetUserByUsername(ctx, username)
}
