package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkov/yatube/internal/apperror"
	"github.com/avolkov/yatube/internal/model"
)

func TestCreateGroup_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	createTestGroup(t, db, "Travel", "travel")

	err := db.CreateGroup(context.Background(), &model.Group{Title: "Other", Slug: "travel"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate slug CreateGroup() error = %v, want ErrConflict", err)
	}
}

func TestGetGroupBySlug(t *testing.T) {
	db := newTestDB(t)
	created := createTestGroup(t, db, "Travel", "travel")

	found, err := db.GetGroupBySlug(context.Background(), "travel")
	if err != nil {
		t.Fatalf("GetGroupBySlug() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Title != "Travel" {
		t.Errorf("Title = %q, want %q", found.Title, "Travel")
	}

	_, err = db.GetGroupBySlug(context.Background(), "no-such-slug")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetGroupBySlug(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListGroups(t *testing.T) {
	db := newTestDB(t)
	createTestGroup(t, db, "Zeta", "zeta")
	createTestGroup(t, db, "Alpha", "alpha")

	groups, err := db.ListGroups(context.Background())
	if err != nil {
		t.Fatalf("ListGroups() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	// Ordered by title.
	if groups[0].Title != "Alpha" || groups[1].Title != "Zeta" {
		t.Errorf("groups not ordered by title: %q, %q", groups[0].Title, groups[1].Title)
	}
}
