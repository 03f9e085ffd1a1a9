package model

import "time"

// Comment is a reply attached to a Post. Comments are immutable once created
// and disappear when either their post or their author is deleted.
//
// AuthorUsername is a read-side field filled by the repository JOIN, same
// convention as Post.
type Comment struct {
	ID             string    `json:"id"        db:"id"`
	PostID         string    `json:"postId"    db:"post_id"`
	AuthorID       string    `json:"authorId"  db:"author_id"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"      db:"text"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
