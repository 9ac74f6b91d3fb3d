package domain

import "time"

// Favorite marks a (user, music) pair as liked. The pair is unique.
type Favorite struct {
	ID        int64
	UserID    int64
	MusicID   int64
	CreatedAt time.Time
}
