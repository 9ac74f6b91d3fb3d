package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

const createPlaylistsTable = `
CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createPlaylistMusicTable = `
CREATE TABLE IF NOT EXISTS playlist_music (
	playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
	music_id INTEGER NOT NULL REFERENCES music(id) ON DELETE CASCADE,
	added_at DATETIME NOT NULL,
	PRIMARY KEY (playlist_id, music_id)
);
`

type PlaylistRepository struct {
	db *sql.DB
}

func NewPlaylistRepository(db *sql.DB) repository.PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPlaylistsTable); err != nil {
		return fmt.Errorf("create playlists table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createPlaylistMusicTable); err != nil {
		return fmt.Errorf("create playlist_music table: %w", err)
	}
	return nil
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *domain.Playlist) (int64, error) {
	now := time.Now().UTC()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO playlists (name, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		playlist.Name,
		playlist.UserID,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return 0, translateErr("insert playlist", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("playlist last insert id: %w", err)
	}
	playlist.ID = id
	return id, nil
}

func (r *PlaylistRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE playlists SET name = ?, updated_at = ? WHERE id = ?`, name, time.Now().UTC(), id)
	if err != nil {
		return translateErr("rename playlist", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("playlist %d not found", id)
	}
	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id int64) (*domain.Playlist, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, user_id, created_at, updated_at FROM playlists WHERE id = ?`, id)
	playlist, err := scanPlaylist(row, id)
	if err != nil {
		return nil, err
	}
	if playlist.MusicIDs, err = r.memberIDs(ctx, id); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (r *PlaylistRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("playlist exists: %w", err)
	}
	return exists, nil
}

func (r *PlaylistRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Playlist, error) {
	return r.queryPlaylists(ctx, `
SELECT id, name, user_id, created_at, updated_at FROM playlists WHERE user_id = ? ORDER BY id`, userID)
}

func (r *PlaylistRepository) ListContainingMusic(ctx context.Context, musicID int64) ([]domain.Playlist, error) {
	return r.queryPlaylists(ctx, `
SELECT p.id, p.name, p.user_id, p.created_at, p.updated_at
FROM playlists p
JOIN playlist_music pm ON pm.playlist_id = p.id
WHERE pm.music_id = ?
ORDER BY p.id`, musicID)
}

func (r *PlaylistRepository) AddMusic(ctx context.Context, playlistID, musicID int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO playlist_music (playlist_id, music_id, added_at) VALUES (?, ?, ?)`,
		playlistID, musicID, time.Now().UTC())
	return translateErr("add music to playlist", err)
}

func (r *PlaylistRepository) RemoveMusic(ctx context.Context, playlistID, musicID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM playlist_music WHERE playlist_id = ? AND music_id = ?`, playlistID, musicID)
	if err != nil {
		return translateErr("remove music from playlist", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Conflictf("music %d is not in playlist %d", musicID, playlistID)
	}
	return nil
}

func (r *PlaylistRepository) HasMusic(ctx context.Context, playlistID, musicID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS(SELECT 1 FROM playlist_music WHERE playlist_id = ? AND music_id = ?)`, playlistID, musicID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("playlist has music: %w", err)
	}
	return exists, nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return translateErr("delete playlist", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("playlist %d not found", id)
	}
	return nil
}

func (r *PlaylistRepository) memberIDs(ctx context.Context, playlistID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT music_id FROM playlist_music WHERE playlist_id = ? ORDER BY added_at, music_id`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("query playlist members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan playlist member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PlaylistRepository) queryPlaylists(ctx context.Context, query string, args ...any) ([]domain.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []domain.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows, 0)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range playlists {
		if playlists[i].MusicIDs, err = r.memberIDs(ctx, playlists[i].ID); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

func scanPlaylist(row interface{ Scan(dest ...any) error }, id int64) (*domain.Playlist, error) {
	var playlist domain.Playlist
	if err := row.Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.UserID,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	); err != nil {
		if nf := notFoundOnNoRows(err, "playlist %d not found", id); nf != err {
			return nil, nf
		}
		return nil, fmt.Errorf("scan playlist: %w", err)
	}
	return &playlist, nil
}
