package service

import (
	"context"
	"strings"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

// PlaylistService manages playlists and their track membership.
type PlaylistService interface {
	Create(ctx context.Context, userID int64, name string) (*domain.Playlist, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Playlist, error)
	GetByID(ctx context.Context, id int64) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error)
	ListContainingMusic(ctx context.Context, musicID int64) ([]domain.Playlist, error)
	AddMusic(ctx context.Context, playlistID, musicID int64) error
	RemoveMusic(ctx context.Context, playlistID, musicID int64) error
	HasMusic(ctx context.Context, playlistID, musicID int64) (bool, error)
	AddToDefault(ctx context.Context, userID, musicID int64) (*domain.Playlist, error)
	Delete(ctx context.Context, id int64) (domain.DeleteStatus, error)
}

type playlistService struct {
	playlists repository.PlaylistRepository
	users     repository.UserRepository
	music     repository.MusicRepository
}

func NewPlaylistService(playlists repository.PlaylistRepository, users repository.UserRepository, music repository.MusicRepository) PlaylistService {
	return &playlistService{playlists: playlists, users: users, music: music}
}

// Create makes a playlist for a user. A blank name falls back to the
// default.
func (s *playlistService) Create(ctx context.Context, userID int64, name string) (*domain.Playlist, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultPlaylistName
	}

	playlist := &domain.Playlist{Name: name, UserID: userID, MusicIDs: []int64{}}
	if _, err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// Rename with a blank name is a no-op and returns the playlist unchanged.
func (s *playlistService) Rename(ctx context.Context, id int64, name string) (*domain.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == playlist.Name {
		return playlist, nil
	}
	if err := s.playlists.Rename(ctx, id, name); err != nil {
		return nil, err
	}
	playlist.Name = name
	return playlist, nil
}

func (s *playlistService) GetByID(ctx context.Context, id int64) (*domain.Playlist, error) {
	return s.playlists.GetByID(ctx, id)
}

func (s *playlistService) ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	return s.playlists.ListByUser(ctx, userID)
}

func (s *playlistService) ListContainingMusic(ctx context.Context, musicID int64) ([]domain.Playlist, error) {
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return nil, err
	}
	return s.playlists.ListContainingMusic(ctx, musicID)
}

// AddMusic appends a track to a playlist. Adding a track already present
// is a conflict.
func (s *playlistService) AddMusic(ctx context.Context, playlistID, musicID int64) error {
	exists, err := s.playlists.ExistsByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFoundf("playlist %d not found", playlistID)
	}
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return err
	}
	member, err := s.playlists.HasMusic(ctx, playlistID, musicID)
	if err != nil {
		return err
	}
	if member {
		return domain.Conflictf("music %d is already in playlist %d", musicID, playlistID)
	}
	return s.playlists.AddMusic(ctx, playlistID, musicID)
}

// RemoveMusic takes a track out of a playlist. The playlist must exist;
// removing a track that is not a member is a conflict, not an absence,
// even when the track id is unknown to the catalog.
func (s *playlistService) RemoveMusic(ctx context.Context, playlistID, musicID int64) error {
	exists, err := s.playlists.ExistsByID(ctx, playlistID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFoundf("playlist %d not found", playlistID)
	}
	return s.playlists.RemoveMusic(ctx, playlistID, musicID)
}

func (s *playlistService) HasMusic(ctx context.Context, playlistID, musicID int64) (bool, error) {
	exists, err := s.playlists.ExistsByID(ctx, playlistID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domain.NotFoundf("playlist %d not found", playlistID)
	}
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return false, err
	}
	return s.playlists.HasMusic(ctx, playlistID, musicID)
}

// AddToDefault drops a track into the user's first playlist, creating one
// with the default name when the user has none yet.
func (s *playlistService) AddToDefault(ctx context.Context, userID, musicID int64) (*domain.Playlist, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return nil, err
	}

	playlists, err := s.playlists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var target *domain.Playlist
	if len(playlists) > 0 {
		target = &playlists[0]
	} else {
		target = &domain.Playlist{Name: domain.DefaultPlaylistName, UserID: userID, MusicIDs: []int64{}}
		if _, err := s.playlists.Create(ctx, target); err != nil {
			return nil, err
		}
	}

	member, err := s.playlists.HasMusic(ctx, target.ID, musicID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, domain.Conflictf("music %d is already in playlist %d", musicID, target.ID)
	}
	if err := s.playlists.AddMusic(ctx, target.ID, musicID); err != nil {
		return nil, err
	}
	target.MusicIDs = append(target.MusicIDs, musicID)
	return target, nil
}

func (s *playlistService) Delete(ctx context.Context, id int64) (domain.DeleteStatus, error) {
	if err := s.playlists.Delete(ctx, id); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DeleteNotFound, nil
		}
		return "", err
	}
	return domain.Deleted, nil
}
