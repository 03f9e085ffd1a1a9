package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/xid"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
	"github.com/avolkov/yatube/internal/repository"
)

var _ repository.GroupRepository = (*DB)(nil)

// CreateGroup inserts a new group. The slug is globally unique — a duplicate
// surfaces as apperror.ErrConflict so fixture loading can skip it.
func (db *DB) CreateGroup(ctx context.Context, group *model.Group) error {
	group.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO groups (id, title, slug, description) VALUES (?, ?, ?, ?)`,
		group.ID,
		group.Title,
		group.Slug,
		group.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("group", group.Slug)
		}
		return fmt.Errorf("sqlite: creating group: %w", err)
	}

	return nil
}

// GetGroupBySlug retrieves a group by its URL slug.
func (db *DB) GetGroupBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var g model.Group

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, slug, description FROM groups WHERE slug = ?`,
		slug,
	).Scan(&g.ID, &g.Title, &g.Slug, &g.Description)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("group", slug)
		}
		return nil, fmt.Errorf("sqlite: getting group %s: %w", slug, err)
	}

	return &g, nil
}

// ListGroups returns every group, ordered by title. The create-post form uses this
// to offer the available groups.
func (db *DB) ListGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, slug, description FROM groups ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating groups: %w", err)
	}

	return groups, nil
}

// DeleteGroup removes a group. Posts in the group are NOT deleted — their
// group_id becomes NULL via ON DELETE SET NULL.
func (db *DB) DeleteGroup(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting group %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("group", id)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// modernc.org/sqlite exposes no typed error for this, so the message text is
// the only portable signal.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
