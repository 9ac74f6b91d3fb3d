package domain

import "time"

// BiometricAuth is the optional one-to-one capability record per user.
// Disabling flips the flag; the row is never deleted.
type BiometricAuth struct {
	ID        int64
	UserID    int64
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
