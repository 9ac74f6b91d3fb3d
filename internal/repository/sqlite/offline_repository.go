package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

const createOfflineTable = `
CREATE TABLE IF NOT EXISTS offline_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	music_id INTEGER NOT NULL REFERENCES music(id) ON DELETE CASCADE,
	file_path TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE(user_id, music_id)
);
`

type OfflineRepository struct {
	db *sql.DB
}

func NewOfflineRepository(db *sql.DB) repository.OfflineRepository {
	return &OfflineRepository{db: db}
}

func (r *OfflineRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createOfflineTable); err != nil {
		return fmt.Errorf("create offline_entries table: %w", err)
	}
	return nil
}

func (r *OfflineRepository) Create(ctx context.Context, entry *domain.OfflineEntry) (int64, error) {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO offline_entries (user_id, music_id, file_path, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		entry.UserID,
		entry.MusicID,
		entry.FilePath,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return 0, translateErr("insert offline entry", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("offline entry last insert id: %w", err)
	}
	entry.ID = id
	return id, nil
}

func (r *OfflineRepository) Update(ctx context.Context, entry *domain.OfflineEntry) error {
	entry.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE offline_entries SET user_id = ?, music_id = ?, file_path = ?, updated_at = ? WHERE id = ?`,
		entry.UserID,
		entry.MusicID,
		entry.FilePath,
		entry.UpdatedAt,
		entry.ID,
	)
	if err != nil {
		return translateErr("update offline entry", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("offline entry %d not found", entry.ID)
	}
	return nil
}

const selectOfflineColumns = `id, user_id, music_id, file_path, created_at, updated_at`

func (r *OfflineRepository) GetByID(ctx context.Context, id int64) (*domain.OfflineEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectOfflineColumns+` FROM offline_entries WHERE id = ?`, id)
	return scanOfflineEntry(row, "offline entry %d not found", id)
}

func (r *OfflineRepository) GetByUserAndMusic(ctx context.Context, userID, musicID int64) (*domain.OfflineEntry, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectOfflineColumns+` FROM offline_entries WHERE user_id = ? AND music_id = ?`, userID, musicID)
	return scanOfflineEntry(row, "offline entry for user %d and music %d not found", userID, musicID)
}

func (r *OfflineRepository) ExistsByUserAndMusic(ctx context.Context, userID, musicID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM offline_entries WHERE user_id = ? AND music_id = ?)`, userID, musicID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("offline entry exists: %w", err)
	}
	return exists, nil
}

func (r *OfflineRepository) ListByUser(ctx context.Context, userID int64) ([]domain.OfflineEntry, error) {
	return r.queryEntries(ctx, `SELECT `+selectOfflineColumns+` FROM offline_entries WHERE user_id = ? ORDER BY id`, userID)
}

func (r *OfflineRepository) ListByMusic(ctx context.Context, musicID int64) ([]domain.OfflineEntry, error) {
	return r.queryEntries(ctx, `SELECT `+selectOfflineColumns+` FROM offline_entries WHERE music_id = ? ORDER BY id`, musicID)
}

// SearchByFilePath is case-sensitive on purpose; sqlite LIKE folds ASCII
// case, so instr() is used instead.
func (r *OfflineRepository) SearchByFilePath(ctx context.Context, substring string) ([]domain.OfflineEntry, error) {
	return r.queryEntries(ctx, `
SELECT `+selectOfflineColumns+` FROM offline_entries WHERE instr(file_path, ?) > 0 ORDER BY id`, substring)
}

func (r *OfflineRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offline_entries WHERE id = ?`, id)
	if err != nil {
		return translateErr("delete offline entry", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("offline entry %d not found", id)
	}
	return nil
}

func (r *OfflineRepository) DeleteByUserAndMusic(ctx context.Context, userID, musicID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offline_entries WHERE user_id = ? AND music_id = ?`, userID, musicID)
	if err != nil {
		return translateErr("delete offline entry", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("offline entry for user %d and music %d not found", userID, musicID)
	}
	return nil
}

func (r *OfflineRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.OfflineEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query offline entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.OfflineEntry
	for rows.Next() {
		entry, err := scanOfflineEntry(rows, "offline entry not found")
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

func scanOfflineEntry(row interface{ Scan(dest ...any) error }, notFoundFormat string, args ...any) (*domain.OfflineEntry, error) {
	var entry domain.OfflineEntry
	if err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.MusicID,
		&entry.FilePath,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		if nf := notFoundOnNoRows(err, notFoundFormat, args...); nf != err {
			return nil, nf
		}
		return nil, fmt.Errorf("scan offline entry: %w", err)
	}
	return &entry, nil
}
