package service

import (
	"context"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

// BiometricService tracks the per-user biometric login flag.
type BiometricService interface {
	SetEnabled(ctx context.Context, userID int64, enabled bool) (*domain.BiometricAuth, error)
	HasEnabled(ctx context.Context, userID int64) (bool, error)
}

type biometricService struct {
	biometrics repository.BiometricRepository
	users      repository.UserRepository
}

func NewBiometricService(biometrics repository.BiometricRepository, users repository.UserRepository) BiometricService {
	return &biometricService{biometrics: biometrics, users: users}
}

// SetEnabled flips the flag, creating the record on first use. The record
// persists across disables so the updated timestamp tracks the last change.
func (s *biometricService) SetEnabled(ctx context.Context, userID int64, enabled bool) (*domain.BiometricAuth, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NotFoundf("user %d not found", userID)
	}

	record, err := s.biometrics.GetByUser(ctx, userID)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		record = &domain.BiometricAuth{UserID: userID, Enabled: enabled}
		if _, err := s.biometrics.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	}

	record.Enabled = enabled
	if err := s.biometrics.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// HasEnabled reports the flag, defaulting to false when no record exists.
func (s *biometricService) HasEnabled(ctx context.Context, userID int64) (bool, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, domain.NotFoundf("user %d not found", userID)
	}

	record, err := s.biometrics.GetByUser(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Enabled, nil
}
