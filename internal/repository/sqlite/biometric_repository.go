package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

const createBiometricTable = `
CREATE TABLE IF NOT EXISTS biometric_auth (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	enabled INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type BiometricRepository struct {
	db *sql.DB
}

func NewBiometricRepository(db *sql.DB) repository.BiometricRepository {
	return &BiometricRepository{db: db}
}

func (r *BiometricRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBiometricTable); err != nil {
		return fmt.Errorf("create biometric_auth table: %w", err)
	}
	return nil
}

func (r *BiometricRepository) Create(ctx context.Context, record *domain.BiometricAuth) (int64, error) {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO biometric_auth (user_id, enabled, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		record.UserID,
		record.Enabled,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return 0, translateErr("insert biometric record", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("biometric last insert id: %w", err)
	}
	record.ID = id
	return id, nil
}

func (r *BiometricRepository) Update(ctx context.Context, record *domain.BiometricAuth) error {
	record.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE biometric_auth SET enabled = ?, updated_at = ? WHERE user_id = ?`,
		record.Enabled,
		record.UpdatedAt,
		record.UserID,
	)
	if err != nil {
		return translateErr("update biometric record", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("biometric record for user %d not found", record.UserID)
	}
	return nil
}

func (r *BiometricRepository) GetByUser(ctx context.Context, userID int64) (*domain.BiometricAuth, error) {
	var record domain.BiometricAuth
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, enabled, created_at, updated_at FROM biometric_auth WHERE user_id = ?`, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.Enabled,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if nf := notFoundOnNoRows(err, "biometric record for user %d not found", userID); nf != err {
			return nil, nf
		}
		return nil, fmt.Errorf("scan biometric record: %w", err)
	}
	return &record, nil
}
