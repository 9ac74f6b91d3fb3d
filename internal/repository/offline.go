package repository

import (
	"context"

	"melodex/internal/domain"
)

// OfflineRepository manages the offline-library membership set. Same
// uniqueness rule as favorites, plus a case-sensitive file-path search.
type OfflineRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, entry *domain.OfflineEntry) (int64, error)
	Update(ctx context.Context, entry *domain.OfflineEntry) error
	GetByID(ctx context.Context, id int64) (*domain.OfflineEntry, error)
	GetByUserAndMusic(ctx context.Context, userID, musicID int64) (*domain.OfflineEntry, error)
	ExistsByUserAndMusic(ctx context.Context, userID, musicID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.OfflineEntry, error)
	ListByMusic(ctx context.Context, musicID int64) ([]domain.OfflineEntry, error)
	SearchByFilePath(ctx context.Context, substring string) ([]domain.OfflineEntry, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUserAndMusic(ctx context.Context, userID, musicID int64) error
}
