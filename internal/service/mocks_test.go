package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

// In-memory repository fakes. They implement just enough of the real
// SQLite behavior (conflicts, not-found, newest-first ordering) for the
// service tests to exercise the business rules without a database.

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockPostRepo struct {
	posts []*model.Post // newest first
	seq   int

	// follows lets follow-feed tests declare who follows whom without a
	// follow repository round-trip: userID -> followed author IDs.
	follows map[string][]string
}

var _ repository.PostRepository = (*mockPostRepo)(nil)

func (m *mockPostRepo) CreatePost(_ context.Context, post *model.Post) error {
	m.seq++
	post.ID = fmt.Sprintf("post-%03d", m.seq)
	post.CreatedAt = time.Now()
	m.posts = append([]*model.Post{post}, m.posts...)
	return nil
}

func (m *mockPostRepo) GetPostByID(_ context.Context, id string) (*model.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

func (m *mockPostRepo) UpdatePost(_ context.Context, post *model.Post) error {
	for i, p := range m.posts {
		if p.ID == post.ID {
			copied := *post
			copied.CreatedAt = p.CreatedAt
			m.posts[i] = &copied
			return nil
		}
	}
	return apperror.NotFound("post", post.ID)
}

func (m *mockPostRepo) DeletePost(_ context.Context, id string) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("post", id)
}

func (m *mockPostRepo) matching(filter repository.PostFilter) []*model.Post {
	var out []*model.Post
	for _, p := range m.posts {
		if filter.GroupID != "" && p.GroupID != filter.GroupID {
			continue
		}
		if filter.AuthorID != "" && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.FollowedBy != "" && !m.followAuthors(filter.FollowedBy)[p.AuthorID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *mockPostRepo) followAuthors(userID string) map[string]bool {
	set := make(map[string]bool)
	for _, authorID := range m.follows[userID] {
		set[authorID] = true
	}
	return set
}

func (m *mockPostRepo) ListPosts(_ context.Context, filter repository.PostFilter, limit, offset int) ([]model.Post, error) {
	matched := m.matching(filter)
	if offset >= len(matched) {
		return []model.Post{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	out := make([]model.Post, 0, len(matched))
	for _, p := range matched {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPostRepo) CountPosts(_ context.Context, filter repository.PostFilter) (int, error) {
	return len(m.matching(filter)), nil
}

type mockGroupRepo struct {
	groups []model.Group
	seq    int
}

var _ repository.GroupRepository = (*mockGroupRepo)(nil)

func (m *mockGroupRepo) CreateGroup(_ context.Context, group *model.Group) error {
	for _, g := range m.groups {
		if g.Slug == group.Slug {
			return apperror.Conflict("group", group.Slug)
		}
	}
	m.seq++
	group.ID = fmt.Sprintf("group-%03d", m.seq)
	m.groups = append(m.groups, *group)
	return nil
}

func (m *mockGroupRepo) GetGroupBySlug(_ context.Context, slug string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.Slug == slug {
			copied := g
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("group", slug)
}

func (m *mockGroupRepo) ListGroups(_ context.Context) ([]model.Group, error) {
	return append([]model.Group{}, m.groups...), nil
}

func (m *mockGroupRepo) DeleteGroup(_ context.Context, id string) error {
	for i, g := range m.groups {
		if g.ID == id {
			m.groups = append(m.groups[:i], m.groups[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("group", id)
}

type mockCommentRepo struct {
	comments []model.Comment // newest first
	seq      int
}

var _ repository.CommentRepository = (*mockCommentRepo)(nil)

func (m *mockCommentRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	m.seq++
	comment.ID = fmt.Sprintf("comment-%03d", m.seq)
	comment.CreatedAt = time.Now()
	m.comments = append([]model.Comment{*comment}, m.comments...)
	return nil
}

func (m *mockCommentRepo) ListCommentsByPost(_ context.Context, postID string) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockUserRepo struct {
	users []*model.User
	seq   int
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return apperror.Conflict("user", user.Username)
		}
	}
	m.seq++
	user.ID = fmt.Sprintf("user-%03d", m.seq)
	user.CreatedAt = time.Now()
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *mockUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) UpsertGitHubUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID != 0 && u.GitHubID == user.GitHubID {
			u.Email = user.Email
			u.AvatarURL = user.AvatarURL
			user.ID = u.ID
			user.Username = u.Username
			user.CreatedAt = u.CreatedAt
			return nil
		}
	}
	return m.CreateUser(context.Background(), user)
}

func (m *mockUserRepo) DeleteUser(_ context.Context, id string) error {
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("user", id)
}

type mockFollowRepo struct {
	edges map[string]bool // "userID|authorID"
}

var _ repository.FollowRepository = (*mockFollowRepo)(nil)

func newMockFollowRepo() *mockFollowRepo {
	return &mockFollowRepo{edges: make(map[string]bool)}
}

func followKey(userID, authorID string) string {
	return userID + "|" + authorID
}

func (m *mockFollowRepo) CreateFollow(_ context.Context, follow *model.Follow) error {
	key := followKey(follow.UserID, follow.AuthorID)
	if m.edges[key] {
		return apperror.Conflict("follow", key)
	}
	m.edges[key] = true
	return nil
}

func (m *mockFollowRepo) DeleteFollow(_ context.Context, userID, authorID string) error {
	delete(m.edges, followKey(userID, authorID))
	return nil
}

func (m *mockFollowRepo) FollowExists(_ context.Context, userID, authorID string) (bool, error) {
	return m.edges[followKey(userID, authorID)], nil
}
