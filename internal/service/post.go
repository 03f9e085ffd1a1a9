// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-layer shape:
//
//	Handler (HTTP)     → parses requests, writes responses and redirects
//	Service (business) → validates, enforces ownership, paginates
//	Repository (data)  → reads/writes SQLite
//
// Services accept primitives and return domain errors (apperror sentinels),
// never HTTP types or status codes. Handlers translate those errors into
// responses — including the site's characteristic "redirect instead of 403"
// on non-author edits.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/pagination"
	"github.com/avolkov/yatube/internal/repository"
)

// MaxPostTextLength bounds a post body. Long enough for any reasonable
// entry, short enough to keep a single row sane.
const MaxPostTextLength = 10000

// Feed is one page of posts plus its pagination metadata. The embedded
// pagination.Page contributes the page/totalPages/totalItems JSON fields.
type Feed struct {
	Posts []model.Post `json:"posts"`
	pagination.Page
}

// PostService handles business logic for posts and their feeds.
type PostService struct {
	posts  repository.PostRepository
	groups repository.GroupRepository
	logger *slog.Logger
}

func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:  posts,
		groups: groups,
		logger: logger,
	}
}

// resolveGroup maps a form's group slug to a group ID. An empty slug means
// "no group". An unknown slug is a validation error on the form field, not
// a 404 — the user picked a value the form never offered.
func (s *PostService) resolveGroup(ctx context.Context, slug string) (string, error) {
	if slug == "" {
		return "", nil
	}

	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return "", apperror.ValidationFailed("group", fmt.Sprintf("unknown group %q", slug))
	}

	return group.ID, nil
}

// Create validates and saves a new post for authorID.
// groupSlug and imagePath are optional ("" = none).
func (s *PostService) Create(ctx context.Context, authorID, text, groupSlug, imagePath string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "post text is required")
	}
	if len(text) > MaxPostTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("post text must be %d characters or less", MaxPostTextLength))
	}

	groupID, err := s.resolveGroup(ctx, groupSlug)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     text,
		Image:    imagePath,
		AuthorID: authorID,
		GroupID:  groupID,
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("author", authorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("author", authorID),
	)

	return post, nil
}

// GetByID retrieves a single post.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	return s.posts.GetPostByID(ctx, id)
}

// Edit applies an author's changes to their post. Only the author may edit:
// anyone else gets ErrForbidden, which the handler turns into a redirect to
// the post's detail page. Text and group always update; the image only
// updates when imagePath is non-empty (an edit form without a new upload
// keeps the old image).
func (s *PostService) Edit(ctx context.Context, userID, postID, text, groupSlug, imagePath string) (*model.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != userID {
		return nil, apperror.Forbidden("only the author may edit a post")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "post text is required")
	}
	if len(text) > MaxPostTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("post text must be %d characters or less", MaxPostTextLength))
	}

	groupID, err := s.resolveGroup(ctx, groupSlug)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = groupID
	if imagePath != "" {
		post.Image = imagePath
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post edited", slog.String("id", post.ID))

	return post, nil
}

// HomeFeed returns one page of all posts, newest first. This is the feed
// the page cache sits in front of.
func (s *PostService) HomeFeed(ctx context.Context, page int) (*Feed, error) {
	return s.feed(ctx, repository.PostFilter{}, page)
}

// GroupFeed returns a group and one page of its posts.
// Unknown slugs are a 404 here (the URL names the group), unlike the
// validation error for an unknown slug on a form.
func (s *PostService) GroupFeed(ctx context.Context, slug string, page int) (*model.Group, *Feed, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	feed, err := s.feed(ctx, repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, nil, err
	}

	return group, feed, nil
}

// AuthorFeed returns one page of posts by a single author (profile page).
func (s *PostService) AuthorFeed(ctx context.Context, authorID string, page int) (*Feed, error) {
	return s.feed(ctx, repository.PostFilter{AuthorID: authorID}, page)
}

// FollowFeed returns one page of posts by the authors userID follows.
// Never cached — it's personal.
func (s *PostService) FollowFeed(ctx context.Context, userID string, page int) (*Feed, error) {
	return s.feed(ctx, repository.PostFilter{FollowedBy: userID}, page)
}

// feed counts the filtered posts, resolves the page (clamping out-of-range
// numbers to the last page) and fetches that window.
func (s *PostService) feed(ctx context.Context, filter repository.PostFilter, page int) (*Feed, error) {
	total, err := s.posts.CountPosts(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	pg := pagination.New(total, page)

	posts, err := s.posts.ListPosts(ctx, filter, pg.Limit(), pg.Offset())
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return &Feed{Posts: posts, Page: pg}, nil
}
