package repository

import (
	"context"

	"melodex/internal/domain"
)

// FavoriteRepository manages the favorites membership set. The
// (user, music) pair is unique; Create surfaces a Conflict error when the
// schema rejects a duplicate that slipped past the service pre-check.
type FavoriteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, favorite *domain.Favorite) (int64, error)
	Update(ctx context.Context, favorite *domain.Favorite) error
	GetByID(ctx context.Context, id int64) (*domain.Favorite, error)
	GetByUserAndMusic(ctx context.Context, userID, musicID int64) (*domain.Favorite, error)
	ExistsByUserAndMusic(ctx context.Context, userID, musicID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error)
	ListByMusic(ctx context.Context, musicID int64) ([]domain.Favorite, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUserAndMusic(ctx context.Context, userID, musicID int64) error
}
