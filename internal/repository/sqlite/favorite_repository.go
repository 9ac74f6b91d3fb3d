package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

const createFavoritesTable = `
CREATE TABLE IF NOT EXISTS favorites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	music_id INTEGER NOT NULL REFERENCES music(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	UNIQUE(user_id, music_id)
);
`

type FavoriteRepository struct {
	db *sql.DB
}

func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createFavoritesTable); err != nil {
		return fmt.Errorf("create favorites table: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) (int64, error) {
	favorite.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO favorites (user_id, music_id, created_at)
VALUES (?, ?, ?)`,
		favorite.UserID,
		favorite.MusicID,
		favorite.CreatedAt,
	)
	if err != nil {
		return 0, translateErr("insert favorite", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("favorite last insert id: %w", err)
	}
	favorite.ID = id
	return id, nil
}

func (r *FavoriteRepository) Update(ctx context.Context, favorite *domain.Favorite) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE favorites SET user_id = ?, music_id = ? WHERE id = ?`,
		favorite.UserID,
		favorite.MusicID,
		favorite.ID,
	)
	if err != nil {
		return translateErr("update favorite", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("favorite %d not found", favorite.ID)
	}
	return nil
}

func (r *FavoriteRepository) GetByID(ctx context.Context, id int64) (*domain.Favorite, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, music_id, created_at FROM favorites WHERE id = ?`, id)
	return scanFavorite(row, "favorite %d not found", id)
}

func (r *FavoriteRepository) GetByUserAndMusic(ctx context.Context, userID, musicID int64) (*domain.Favorite, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, music_id, created_at FROM favorites WHERE user_id = ? AND music_id = ?`, userID, musicID)
	return scanFavorite(row, "favorite for user %d and music %d not found", userID, musicID)
}

func (r *FavoriteRepository) ExistsByUserAndMusic(ctx context.Context, userID, musicID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = ? AND music_id = ?)`, userID, musicID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("favorite exists: %w", err)
	}
	return exists, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Favorite, error) {
	return r.queryFavorites(ctx, `
SELECT id, user_id, music_id, created_at FROM favorites WHERE user_id = ? ORDER BY id`, userID)
}

func (r *FavoriteRepository) ListByMusic(ctx context.Context, musicID int64) ([]domain.Favorite, error) {
	return r.queryFavorites(ctx, `
SELECT id, user_id, music_id, created_at FROM favorites WHERE music_id = ? ORDER BY id`, musicID)
}

func (r *FavoriteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE id = ?`, id)
	if err != nil {
		return translateErr("delete favorite", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("favorite %d not found", id)
	}
	return nil
}

func (r *FavoriteRepository) DeleteByUserAndMusic(ctx context.Context, userID, musicID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = ? AND music_id = ?`, userID, musicID)
	if err != nil {
		return translateErr("delete favorite", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("favorite for user %d and music %d not found", userID, musicID)
	}
	return nil
}

func (r *FavoriteRepository) queryFavorites(ctx context.Context, query string, args ...any) ([]domain.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		favorite, err := scanFavorite(rows, "favorite not found")
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, *favorite)
	}
	return favorites, rows.Err()
}

func scanFavorite(row interface{ Scan(dest ...any) error }, notFoundFormat string, args ...any) (*domain.Favorite, error) {
	var favorite domain.Favorite
	if err := row.Scan(&favorite.ID, &favorite.UserID, &favorite.MusicID, &favorite.CreatedAt); err != nil {
		if nf := notFoundOnNoRows(err, notFoundFormat, args...); nf != err {
			return nil, nf
		}
		return nil, fmt.Errorf("scan favorite: %w", err)
	}
	return &favorite, nil
}
