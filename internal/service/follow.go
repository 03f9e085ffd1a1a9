package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

// FollowService handles the follow graph between users.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

func NewFollowService(
	follows repository.FollowRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
		logger:  logger,
	}
}

// Follow subscribes userID to the author named by username.
//
// Following is idempotent: following someone already followed is a silent
// success, not an error — the unique constraint fires underneath and the
// conflict is swallowed here. Following yourself is rejected; the schema
// alone would happily store it.
func (s *FollowService) Follow(ctx context.Context, userID, username string) error {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if author.ID == userID {
		return apperror.ValidationFailed("author", "you cannot follow yourself")
	}

	follow := &model.Follow{UserID: userID, AuthorID: author.ID}
	if err := s.follows.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil // already following
		}
		s.logger.Error("failed to create follow",
			slog.String("user", userID),
			slog.String("author", author.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("creating follow: %w", err)
	}

	s.logger.Info("follow created",
		slog.String("user", userID),
		slog.String("author", author.ID),
	)

	return nil
}

// Unfollow removes userID's subscription to username. Unfollowing someone
// not followed is a silent no-op.
func (s *FollowService) Unfollow(ctx context.Context, userID, username string) error {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.follows.DeleteFollow(ctx, userID, author.ID); err != nil {
		s.logger.Error("failed to delete follow",
			slog.String("user", userID),
			slog.String("author", author.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting follow: %w", err)
	}

	return nil
}

// IsFollowing reports whether userID follows authorID. Anonymous visitors
// (empty userID) follow nobody.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	return s.follows.FollowExists(ctx, userID, authorID)
}
