package repository

import (
	"context"

	"melodex/internal/domain"
)

// MusicRepository exposes persistence operations for catalog tracks. The
// Contains lookups are case-insensitive substring filters; the exact
// lookups match verbatim.
type MusicRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, music *domain.Music) (int64, error)
	Update(ctx context.Context, music *domain.Music) error
	GetByID(ctx context.Context, id int64) (*domain.Music, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Music, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Music, error)
	FindByTitleContains(ctx context.Context, title string) ([]domain.Music, error)
	FindByArtistContains(ctx context.Context, artist string) ([]domain.Music, error)
	FindByGenreContains(ctx context.Context, genre string) ([]domain.Music, error)
	FindByTitle(ctx context.Context, title string) ([]domain.Music, error)
	FindByArtist(ctx context.Context, artist string) ([]domain.Music, error)
	FindByGenre(ctx context.Context, genre string) ([]domain.Music, error)
	FindByDurationRange(ctx context.Context, minSeconds, maxSeconds *int) ([]domain.Music, error)
	ExistsByTitleAndArtist(ctx context.Context, title, artist string) (bool, error)
	Delete(ctx context.Context, id int64) error
}
