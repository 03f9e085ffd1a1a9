package model

import "time"

// Post is a user-authored text entry, optionally tagged with a Group and an image.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize this
// struct. CreatedAt is set once at insert time and never changes — edits may
// touch Text, GroupID and Image only.
//
// AuthorUsername, GroupTitle and GroupSlug are denormalized read-side fields
// filled in by the repository's JOINs. They are never written back to the
// posts table; they exist so list and detail responses don't need N+1 user
// and group lookups.
type Post struct {
	ID             string    `json:"id"        db:"id"`
	Text           string    `json:"text"      db:"text"`
	Image          string    `json:"image,omitempty" db:"image"`
	AuthorID       string    `json:"authorId"  db:"author_id"`
	AuthorUsername string    `json:"author"`
	GroupID        string    `json:"groupId,omitempty" db:"group_id"`
	GroupTitle     string    `json:"groupTitle,omitempty"`
	GroupSlug      string    `json:"groupSlug,omitempty"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
