package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

const createMusicTable = `
CREATE TABLE IF NOT EXISTS music (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	genre TEXT,
	duration_seconds INTEGER,
	audio_data BLOB,
	audio_url TEXT,
	image_ref TEXT,
	owner_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type MusicRepository struct {
	db *sql.DB
}

func NewMusicRepository(db *sql.DB) repository.MusicRepository {
	return &MusicRepository{db: db}
}

func (r *MusicRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMusicTable); err != nil {
		return fmt.Errorf("create music table: %w", err)
	}
	return nil
}

func (r *MusicRepository) Create(ctx context.Context, music *domain.Music) (int64, error) {
	now := time.Now().UTC()
	music.CreatedAt = now
	music.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO music (title, artist, genre, duration_seconds, audio_data, audio_url, image_ref, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		music.Title,
		music.Artist,
		nullString(music.Genre),
		music.DurationSeconds,
		nullBytes(music.AudioData),
		nullString(music.AudioURL),
		nullString(music.ImageRef),
		music.OwnerID,
		music.CreatedAt,
		music.UpdatedAt,
	)
	if err != nil {
		return 0, translateErr("insert music", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("music last insert id: %w", err)
	}
	music.ID = id
	return id, nil
}

func (r *MusicRepository) Update(ctx context.Context, music *domain.Music) error {
	music.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE music
SET title = ?, artist = ?, genre = ?, duration_seconds = ?, audio_data = ?, audio_url = ?, image_ref = ?, owner_id = ?, updated_at = ?
WHERE id = ?`,
		music.Title,
		music.Artist,
		nullString(music.Genre),
		music.DurationSeconds,
		nullBytes(music.AudioData),
		nullString(music.AudioURL),
		nullString(music.ImageRef),
		music.OwnerID,
		music.UpdatedAt,
		music.ID,
	)
	if err != nil {
		return translateErr("update music", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("music %d not found", music.ID)
	}
	return nil
}

const selectMusicColumns = `id, title, artist, genre, duration_seconds, audio_data, audio_url, image_ref, owner_id, created_at, updated_at`

func (r *MusicRepository) GetByID(ctx context.Context, id int64) (*domain.Music, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE id = ?`, id)
	return scanMusic(row, id)
}

func (r *MusicRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM music WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("music exists: %w", err)
	}
	return exists, nil
}

func (r *MusicRepository) List(ctx context.Context) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music ORDER BY id`)
}

func (r *MusicRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE owner_id = ? ORDER BY id`, userID)
}

func (r *MusicRepository) FindByTitleContains(ctx context.Context, title string) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE lower(title) LIKE ? ORDER BY id`, containsPattern(title))
}

func (r *MusicRepository) FindByArtistContains(ctx context.Context, artist string) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE lower(artist) LIKE ? ORDER BY id`, containsPattern(artist))
}

func (r *MusicRepository) FindByGenreContains(ctx context.Context, genre string) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE genre IS NOT NULL AND lower(genre) LIKE ? ORDER BY id`, containsPattern(genre))
}

func (r *MusicRepository) FindByTitle(ctx context.Context, title string) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE title = ? ORDER BY id`, title)
}

func (r *MusicRepository) FindByArtist(ctx context.Context, artist string) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE artist = ? ORDER BY id`, artist)
}

func (r *MusicRepository) FindByGenre(ctx context.Context, genre string) ([]domain.Music, error) {
	return r.queryMusic(ctx, `SELECT `+selectMusicColumns+` FROM music WHERE genre = ? ORDER BY id`, genre)
}

func (r *MusicRepository) FindByDurationRange(ctx context.Context, minSeconds, maxSeconds *int) ([]domain.Music, error) {
	query := `SELECT ` + selectMusicColumns + ` FROM music WHERE duration_seconds IS NOT NULL`
	var args []any
	if minSeconds != nil {
		query += ` AND duration_seconds >= ?`
		args = append(args, *minSeconds)
	}
	if maxSeconds != nil {
		query += ` AND duration_seconds <= ?`
		args = append(args, *maxSeconds)
	}
	query += ` ORDER BY id`
	return r.queryMusic(ctx, query, args...)
}

func (r *MusicRepository) ExistsByTitleAndArtist(ctx context.Context, title, artist string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM music WHERE title = ? AND artist = ?)`, title, artist).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("music exists by title and artist: %w", err)
	}
	return exists, nil
}

func (r *MusicRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM music WHERE id = ?`, id)
	if err != nil {
		return translateErr("delete music", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("music %d not found", id)
	}
	return nil
}

func (r *MusicRepository) queryMusic(ctx context.Context, query string, args ...any) ([]domain.Music, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query music: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Music
	for rows.Next() {
		track, err := scanMusic(rows, 0)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	return tracks, rows.Err()
}

func scanMusic(row interface{ Scan(dest ...any) error }, id int64) (*domain.Music, error) {
	var (
		music    domain.Music
		genre    sql.NullString
		duration sql.NullInt64
		audioURL sql.NullString
		imageRef sql.NullString
		ownerID  sql.NullInt64
	)
	if err := row.Scan(
		&music.ID,
		&music.Title,
		&music.Artist,
		&genre,
		&duration,
		&music.AudioData,
		&audioURL,
		&imageRef,
		&ownerID,
		&music.CreatedAt,
		&music.UpdatedAt,
	); err != nil {
		if nf := notFoundOnNoRows(err, "music %d not found", id); nf != err {
			return nil, nf
		}
		return nil, fmt.Errorf("scan music: %w", err)
	}
	music.Genre = genre.String
	if duration.Valid {
		v := int(duration.Int64)
		music.DurationSeconds = &v
	}
	music.AudioURL = audioURL.String
	music.ImageRef = imageRef.String
	if ownerID.Valid {
		v := ownerID.Int64
		music.OwnerID = &v
	}
	return &music, nil
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
