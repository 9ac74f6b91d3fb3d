package service

import (
	"context"
	"strings"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

// UpdateOfflineEntryParams carries the optional fields of a partial entry
// update. User and music may be reassigned together or separately.
type UpdateOfflineEntryParams struct {
	UserID   *int64
	MusicID  *int64
	FilePath *string
}

// OfflineService manages per-user offline download records.
type OfflineService interface {
	Add(ctx context.Context, userID, musicID int64, filePath string) (*domain.OfflineEntry, error)
	Remove(ctx context.Context, userID, musicID int64) error
	IsOffline(ctx context.Context, userID, musicID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.OfflineEntry, error)
	ListByMusic(ctx context.Context, musicID int64) ([]domain.OfflineEntry, error)
	SearchByFilePath(ctx context.Context, fragment string) ([]domain.OfflineEntry, error)
	GetEntry(ctx context.Context, id int64) (*domain.OfflineEntry, error)
	UpdateEntry(ctx context.Context, id int64, params UpdateOfflineEntryParams) (*domain.OfflineEntry, error)
	DeleteEntry(ctx context.Context, id int64) (domain.DeleteStatus, error)
}

type offlineService struct {
	offline repository.OfflineRepository
	users   repository.UserRepository
	music   repository.MusicRepository
}

func NewOfflineService(offline repository.OfflineRepository, users repository.UserRepository, music repository.MusicRepository) OfflineService {
	return &offlineService{offline: offline, users: users, music: music}
}

func (s *offlineService) checkRefs(ctx context.Context, userID, musicID int64) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFoundf("user %d not found", userID)
	}
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return err
	}
	return nil
}

// Add records that a track is stored locally for a user. One record per
// user/music pair; a second download of the same track is a conflict.
func (s *offlineService) Add(ctx context.Context, userID, musicID int64, filePath string) (*domain.OfflineEntry, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil, domain.Validationf("file path is required")
	}
	if err := s.checkRefs(ctx, userID, musicID); err != nil {
		return nil, err
	}

	already, err := s.offline.ExistsByUserAndMusic(ctx, userID, musicID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, domain.Conflictf("music %d is already available offline for user %d", musicID, userID)
	}

	entry := &domain.OfflineEntry{UserID: userID, MusicID: musicID, FilePath: filePath}
	if _, err := s.offline.Create(ctx, entry); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflictf("music %d is already available offline for user %d", musicID, userID)
		}
		return nil, err
	}
	return entry, nil
}

func (s *offlineService) Remove(ctx context.Context, userID, musicID int64) error {
	return s.offline.DeleteByUserAndMusic(ctx, userID, musicID)
}

// IsOffline requires both referents to exist, whether or not an entry
// does.
func (s *offlineService) IsOffline(ctx context.Context, userID, musicID int64) (bool, error) {
	if err := s.checkRefs(ctx, userID, musicID); err != nil {
		return false, err
	}
	return s.offline.ExistsByUserAndMusic(ctx, userID, musicID)
}

func (s *offlineService) ListByUser(ctx context.Context, userID int64) ([]domain.OfflineEntry, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	return s.offline.ListByUser(ctx, userID)
}

func (s *offlineService) ListByMusic(ctx context.Context, musicID int64) ([]domain.OfflineEntry, error) {
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return nil, err
	}
	return s.offline.ListByMusic(ctx, musicID)
}

// SearchByFilePath matches path fragments case-sensitively.
func (s *offlineService) SearchByFilePath(ctx context.Context, fragment string) ([]domain.OfflineEntry, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, domain.Validationf("search fragment is required")
	}
	return s.offline.SearchByFilePath(ctx, fragment)
}

func (s *offlineService) GetEntry(ctx context.Context, id int64) (*domain.OfflineEntry, error) {
	return s.offline.GetByID(ctx, id)
}

// UpdateEntry changes the stored file path and may repoint the entry at a
// new user/music pair.
func (s *offlineService) UpdateEntry(ctx context.Context, id int64, params UpdateOfflineEntryParams) (*domain.OfflineEntry, error) {
	entry, err := s.offline.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.UserID != nil {
		entry.UserID = *params.UserID
	}
	if params.MusicID != nil {
		entry.MusicID = *params.MusicID
	}
	if params.UserID != nil || params.MusicID != nil {
		if err := s.checkRefs(ctx, entry.UserID, entry.MusicID); err != nil {
			return nil, err
		}
	}
	if params.FilePath != nil {
		filePath := strings.TrimSpace(*params.FilePath)
		if filePath == "" {
			return nil, domain.Validationf("file path is required")
		}
		entry.FilePath = filePath
	}

	if err := s.offline.Update(ctx, entry); err != nil {
		// the unique pair constraint catches reassignment onto an
		// existing entry
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflictf("music %d is already available offline for user %d", entry.MusicID, entry.UserID)
		}
		return nil, err
	}
	return entry, nil
}

func (s *offlineService) DeleteEntry(ctx context.Context, id int64) (domain.DeleteStatus, error) {
	if err := s.offline.Delete(ctx, id); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DeleteNotFound, nil
		}
		return "", err
	}
	return domain.Deleted, nil
}
