package repository

import (
	"context"

	"melodex/internal/domain"
)

// BiometricRepository manages the one-to-one biometric capability record.
type BiometricRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, record *domain.BiometricAuth) (int64, error)
	Update(ctx context.Context, record *domain.BiometricAuth) error
	GetByUser(ctx context.Context, userID int64) (*domain.BiometricAuth, error)
}
