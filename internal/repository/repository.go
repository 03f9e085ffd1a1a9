// Package repository defines the storage interfaces the service layer
// depends on. The concrete SQLite implementation lives in repository/sqlite;
// tests substitute hand-written in-memory mocks.
//
// Method names are entity-qualified (CreatePost, not Create) because one
// sqlite.DB value implements every interface here — plain names would
// collide across entities.
package repository

import (
	"context"

	"github.com/avolkov/yatube/internal/model"
)

// PostFilter narrows a post listing to one of the site's feeds.
// Zero value = the home feed (every post). At most one field is set at a time
// by the service layer.
type PostFilter struct {
	GroupID    string // posts in one group
	AuthorID   string // posts by one author (profile page)
	FollowedBy string // posts by every author this user follows (follow feed)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id string) (*model.Post, error)
	// UpdatePost persists text, group and image changes. Author and creation
	// timestamp are immutable and never written.
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
	// ListPosts returns posts newest-first (created_at DESC, id DESC) within
	// the filter's scope, windowed by limit/offset.
	ListPosts(ctx context.Context, filter PostFilter, limit, offset int) ([]model.Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int, error)
}

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *model.Group) error
	GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	// DeleteGroup removes the group. Posts in the group survive with their
	// group reference cleared (ON DELETE SET NULL).
	DeleteGroup(ctx context.Context, id string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	// ListCommentsByPost returns every comment on a post, newest first.
	ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertGitHubUser creates or refreshes a user keyed by their GitHub ID.
	// Used by the OAuth callback; password users never go through here.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

type FollowRepository interface {
	// CreateFollow inserts a follow edge. A duplicate (user, author) pair
	// returns apperror.ErrConflict; the service decides how to surface that.
	CreateFollow(ctx context.Context, follow *model.Follow) error
	DeleteFollow(ctx context.Context, userID, authorID string) error
	FollowExists(ctx context.Context, userID, authorID string) (bool, error)
}
