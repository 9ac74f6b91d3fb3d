package domain

import "time"

// OfflineEntry records that a user cached a track to a local file path.
// The (user, music) pair is unique, independently of favorites.
type OfflineEntry struct {
	ID        int64
	UserID    int64
	MusicID   int64
	FilePath  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
