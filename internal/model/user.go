// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Two login paths feed this struct:
//   - password signup: Username/Email/PasswordHash are set, GitHubID stays 0
//   - GitHub OAuth: GitHubID/AvatarURL are set, PasswordHash stays ""
//
// PasswordHash is tagged `json:"-"` so it can never leak into an API response,
// no matter which handler serializes the user.
//
// WHY GitHubID int64?
// GitHub user IDs are integers. Using int64 avoids overflow for large GitHub
// account numbers. 0 means "no linked GitHub account" — the partial unique
// index in the schema only applies to non-zero values.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"-"         db:"github_id"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
