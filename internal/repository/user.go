package repository

import (
	"context"

	"melodex/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByOAuthSubject(ctx context.Context, subject string) (*domain.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}
