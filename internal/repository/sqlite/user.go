package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, username, email, password_hash, github_id, avatar_url, created_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.GitHubID,
		&u.AvatarURL,
		&u.CreatedAt,
	)
}

// CreateUser inserts a new account (password signup path).
// A taken username surfaces as apperror.ErrConflict — usernames are unique
// case-insensitively (COLLATE NOCASE in the schema).
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, github_id, avatar_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.GitHubID,
		user.AvatarURL,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// GetUserByUsername retrieves a user by username (case-insensitive).
// This is the lookup behind /profile/{username}/ and password login.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if err := scanUser(row, &u); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by username %s: %w", username, err)
	}

	return &u, nil
}

// UpsertGitHubUser inserts or updates a user keyed by GitHub ID.
//
// First OAuth login → INSERT (keeping the GitHub login as the username).
// Subsequent logins → UPDATE of email/avatar, preserving the internal ID so
// posts, comments and follows stay attached to the same account.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	var existingID, existingUsername string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID, &existingUsername)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		// The username is the site-wide identity — never rewrite it from
		// GitHub after the first login, even if the GitHub login changed.
		user.ID = existingID
		user.Username = existingUsername
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET email = ?, avatar_url = ? WHERE id = ?`,
			user.Email,
			user.AvatarURL,
			user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, github_id, avatar_url, created_at)
		 VALUES (?, ?, ?, '', ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.GitHubID,
		user.AvatarURL,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// GitHub login collides with an existing username.
			return apperror.Conflict("user", user.Username)
		}
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

// DeleteUser removes an account. Their posts, comments and follows go with
// it (ON DELETE CASCADE), and comments on their posts cascade through posts.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
