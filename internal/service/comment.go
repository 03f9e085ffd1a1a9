package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

// MaxCommentTextLength bounds a comment body.
const MaxCommentTextLength = 2000

// CommentService handles business logic for comments.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

// Add validates and attaches a comment to a post. Commenting on a post that
// doesn't exist is a 404, same as visiting it.
func (s *CommentService) Add(ctx context.Context, postID, authorID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment text must be %d characters or less", MaxCommentTextLength))
	}

	// Confirm the post exists before inserting — a dangling post ID should
	// surface as not-found, not as a foreign key failure.
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("post", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment added",
		slog.String("id", comment.ID),
		slog.String("post", postID),
	)

	return comment, nil
}

// ListByPost returns every comment on a post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	comments, err := s.comments.ListCommentsByPost(ctx, postID)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.String("post", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return comments, nil
}
