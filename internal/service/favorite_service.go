package service

import (
	"context"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

// FavoriteService manages the user/music favorite relation.
type FavoriteService interface {
	Add(ctx context.Context, userID, musicID int64) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, musicID int64) error
	IsFavorite(ctx context.Context, userID, musicID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
	ListByMusic(ctx context.Context, musicID int64) ([]domain.Favorite, error)
	GetEntry(ctx context.Context, id int64) (*domain.Favorite, error)
	UpdateEntry(ctx context.Context, id int64, userID, musicID int64) (*domain.Favorite, error)
	DeleteEntry(ctx context.Context, id int64) (domain.DeleteStatus, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	users     repository.UserRepository
	music     repository.MusicRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository, users repository.UserRepository, music repository.MusicRepository) FavoriteService {
	return &favoriteService{favorites: favorites, users: users, music: music}
}

func (s *favoriteService) checkRefs(ctx context.Context, userID, musicID int64) error {
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

// Add records a favorite. Favoriting the same track twice is a conflict.
func (s *favoriteService) Add(ctx context.Context, userID, musicID int64) (*domain.Favorite, error) {
	if err := s.checkRefs(ctx, userID, musicID); err != nil {
		return nil, err
	}
	already, err := s.favorites.ExistsByUserAndMusic(ctx, userID, musicID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, domain.Conflictf("music %d is already a favorite of user %d", musicID, userID)
	}

	favorite := &domain.Favorite{UserID: userID, MusicID: musicID}
	if _, err := s.favorites.Create(ctx, favorite); err != nil {
		// the unique pair constraint catches concurrent adds
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflictf("music %d is already a favorite of user %d", musicID, userID)
		}
		return nil, err
	}
	return favorite, nil
}

// Remove deletes a favorite pair. An absent pair is not found, so that
// add and remove stay symmetric.
func (s *favoriteService) Remove(ctx context.Context, userID, musicID int64) error {
	return s.favorites.DeleteByUserAndMusic(ctx, userID, musicID)
}

// IsFavorite requires both referents to exist, whether or not a favorite
// row does.
func (s *favoriteService) IsFavorite(ctx context.Context, userID, musicID int64) (bool, error) {
	if err := s.checkRefs(ctx, userID, musicID); err != nil {
		return false, err
	}
	return s.favorites.ExistsByUserAndMusic(ctx, userID, musicID)
}

func (s *favoriteService) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}
	return s.favorites.ListByUser(ctx, userID)
}

func (s *favoriteService) ListByMusic(ctx context.Context, musicID int64) ([]domain.Favorite, error) {
	if _, err := s.music.GetByID(ctx, musicID); err != nil {
		return nil, err
	}
	return s.favorites.ListByMusic(ctx, musicID)
}

func (s *favoriteService) GetEntry(ctx context.Context, id int64) (*domain.Favorite, error) {
	return s.favorites.GetByID(ctx, id)
}

// UpdateEntry repoints an existing favorite row at a new user/music pair.
func (s *favoriteService) UpdateEntry(ctx context.Context, id int64, userID, musicID int64) (*domain.Favorite, error) {
	favorite, err := s.favorites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, userID, musicID); err != nil {
		return nil, err
	}
	favorite.UserID = userID
	favorite.MusicID = musicID
	if err := s.favorites.Update(ctx, favorite); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.Conflictf("music %d is already a favorite of user %d", musicID, userID)
		}
		return nil, err
	}
	return favorite, nil
}

func (s *favoriteService) DeleteEntry(ctx context.Context, id int64) (domain.DeleteStatus, error) {
	if err := s.favorites.Delete(ctx, id); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DeleteNotFound, nil
		}
		return "", err
	}
	return domain.Deleted, nil
}
