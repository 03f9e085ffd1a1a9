package model

// Group is a named category posts can optionally belong to.
// The slug is globally unique and is what appears in /group/{slug}/ URLs.
// Groups are created by fixtures or admin tooling, never by end users.
type Group struct {
	ID          string `json:"id"          db:"id"`
	Title       string `json:"title"       db:"title"`
	Slug        string `json:"slug"        db:"slug"`
	Description string `json:"description" db:"description"`
}
