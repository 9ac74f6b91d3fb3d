package repository

import (
	"context"

	"melodex/internal/domain"
)

// PlaylistRepository manages playlists and their membership junction.
// AddMusic surfaces a Conflict error when the pair already exists.
type PlaylistRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, playlist *domain.Playlist) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	GetByID(ctx context.Context, id int64) (*domain.Playlist, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error)
	ListContainingMusic(ctx context.Context, musicID int64) ([]domain.Playlist, error)
	AddMusic(ctx context.Context, playlistID, musicID int64) error
	RemoveMusic(ctx context.Context, playlistID, musicID int64) error
	HasMusic(ctx context.Context, playlistID, musicID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
