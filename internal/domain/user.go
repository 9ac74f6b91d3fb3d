package domain

import "time"

// User represents an account. Accounts provisioned through an OAuth
// provider carry an OAuthSubject and a placeholder password hash that is
// never accepted for password login.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	OAuthSubject   string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
