package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

var _ repository.FollowRepository = (*DB)(nil)

// CreateFollow inserts a follow edge.
//
// The UNIQUE (user_id, author_id) constraint is the source of truth for
// "a user cannot follow the same author twice". A violation is translated
// to apperror.ErrConflict rather than leaking a driver error — checking
// FollowExists first would leave a race between two concurrent requests,
// so the constraint does the deciding and we just translate.
func (db *DB) CreateFollow(ctx context.Context, follow *model.Follow) error {
	follow.ID = xid.New().String()
	follow.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO follows (id, user_id, author_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		follow.ID,
		follow.UserID,
		follow.AuthorID,
		follow.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("follow", follow.UserID+"/"+follow.AuthorID)
		}
		return fmt.Errorf("sqlite: creating follow: %w", err)
	}

	return nil
}

// DeleteFollow removes the follow edge from userID to authorID.
// Deleting a follow that doesn't exist is a no-op, so unfollow is
// idempotent from the caller's point of view.
func (db *DB) DeleteFollow(ctx context.Context, userID, authorID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE user_id = ? AND author_id = ?`,
		userID, authorID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting follow: %w", err)
	}

	return nil
}

// FollowExists reports whether userID follows authorID.
// Profile responses use this to render the follow/unfollow state.
func (db *DB) FollowExists(ctx context.Context, userID, authorID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM follows WHERE user_id = ? AND author_id = ?`,
		userID, authorID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking follow: %w", err)
	}

	return count > 0, nil
}
