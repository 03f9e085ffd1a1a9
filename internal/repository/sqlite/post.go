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

// Compile-time check that *DB implements repository.PostRepository.
var _ repository.PostRepository = (*DB)(nil)

// postColumns is the SELECT list shared by every post query. The JOIN brings
// in the author's username; the LEFT JOIN tolerates posts whose group was
// deleted (group_id is NULL after ON DELETE SET NULL).
const postColumns = `
	p.id, p.text, p.image, p.author_id, u.username,
	COALESCE(p.group_id, ''), COALESCE(g.title, ''), COALESCE(g.slug, ''),
	p.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id`

func scanPost(row interface{ Scan(...any) error }, p *model.Post) error {
	return row.Scan(
		&p.ID,
		&p.Text,
		&p.Image,
		&p.AuthorID,
		&p.AuthorUsername,
		&p.GroupID,
		&p.GroupTitle,
		&p.GroupSlug,
		&p.CreatedAt,
	)
}

// CreatePost inserts a new post. The ID and CreatedAt are generated here and
// written back onto the caller's struct (pointer receiver on the argument).
// xid IDs are time-sortable, which makes (created_at, id) a total order —
// two posts created in the same instant still sort deterministically.
func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now()

	var groupID any
	if post.GroupID != "" {
		groupID = post.GroupID
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, text, image, author_id, group_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Text,
		post.Image,
		post.AuthorID,
		groupID,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetPostByID retrieves a single post with its author and group read-side fields.
func (db *DB) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post

	row := db.conn.QueryRowContext(ctx, `SELECT `+postColumns+` WHERE p.id = ?`, id)
	if err := scanPost(row, &p); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &p, nil
}

// UpdatePost persists an edit. Only text, group and image change — author and
// created_at are immutable, so they never appear in the SET clause.
func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	var groupID any
	if post.GroupID != "" {
		groupID = post.GroupID
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET text = ?, group_id = ?, image = ? WHERE id = ?`,
		post.Text,
		groupID,
		post.Image,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// DeletePost removes a post. Its comments go with it (ON DELETE CASCADE).
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}

// filterClause converts a PostFilter into a WHERE fragment and its args.
// The zero filter selects every post (home feed).
func filterClause(filter repository.PostFilter) (string, []any) {
	switch {
	case filter.GroupID != "":
		return ` WHERE p.group_id = ?`, []any{filter.GroupID}
	case filter.AuthorID != "":
		return ` WHERE p.author_id = ?`, []any{filter.AuthorID}
	case filter.FollowedBy != "":
		return ` WHERE p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)`,
			[]any{filter.FollowedBy}
	default:
		return ``, nil
	}
}

// ListPosts returns posts newest-first within the filter's scope.
func (db *DB) ListPosts(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	where, args := filterClause(filter)
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+where+
			` ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// CountPosts returns the number of posts in the filter's scope. The paginator
// needs this to clamp out-of-range page numbers to the last valid page.
func (db *DB) CountPosts(ctx context.Context, filter repository.PostFilter) (int, error) {
	where, args := filterClause(filter)

	// The count doesn't need the JOINs, but reusing filterClause keeps the
	// scoping rules in exactly one place, so alias the table the same way.
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts p`+where, args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting posts: %w", err)
	}

	return count, nil
}
