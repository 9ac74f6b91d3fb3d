package domain

import "time"

// DefaultPlaylistName is assigned when a playlist is created with a blank name.
const DefaultPlaylistName = "New Playlist"

// Playlist is a named, user-owned set of tracks. Members are referenced by
// id; a track appears at most once per playlist but may belong to any
// number of playlists.
type Playlist struct {
	ID        int64
	Name      string
	UserID    int64
	MusicIDs  []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
