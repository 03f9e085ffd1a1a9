package sqlite

import (
	"context"
	"testing"

	"github.com/avolkov/yatube/internal/model"
)

// Using ":memory:" gives every test a fresh, isolated database with no disk
// I/O, destroyed when the connection closes.
//
// t.Helper() makes failures report at the CALLER's line number, which keeps
// test output readable.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

func createTestGroup(t *testing.T, db *DB, title, slug string) *model.Group {
	t.Helper()
	group := &model.Group{Title: title, Slug: slug, Description: "test group"}
	if err := db.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create test group %s: %v", slug, err)
	}
	return group
}

func createTestPost(t *testing.T, db *DB, author *model.User, text, groupID string) *model.Post {
	t.Helper()
	post := &model.Post{Text: text, AuthorID: author.ID, GroupID: groupID}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
