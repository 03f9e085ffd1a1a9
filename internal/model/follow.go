package model

import "time"

// Follow is a directed subscription: UserID follows AuthorID.
// The (user_id, author_id) pair is unique in the schema, so a user can
// follow the same author at most once.
type Follow struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
