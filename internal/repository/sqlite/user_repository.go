package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"melodex/internal/domain"
	"melodex/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT,
	oauth_subject TEXT UNIQUE,
	profile_picture TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, oauth_subject, profile_picture, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		nullString(user.PasswordHash),
		nullString(user.OAuthSubject),
		nullString(user.ProfilePicture),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return 0, translateErr("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET username = ?, email = ?, password_hash = ?, oauth_subject = ?, profile_picture = ?, updated_at = ?
WHERE id = ?`,
		user.Username,
		user.Email,
		nullString(user.PasswordHash),
		nullString(user.OAuthSubject),
		nullString(user.ProfilePicture),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return translateErr("update user", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("user %d not found", user.ID)
	}
	return nil
}

const selectUserColumns = `id, username, email, password_hash, oauth_subject, profile_picture, created_at, updated_at`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row, "user %d not found", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row, "user %q not found", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row, "user %q not found", email)
}

func (r *UserRepository) GetByOAuthSubject(ctx context.Context, subject string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectUserColumns+` FROM users WHERE oauth_subject = ?`, subject)
	return scanUser(row, "user with oauth subject %q not found", subject)
}

func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectUserColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows, "user not found")
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return translateErr("delete user", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundf("user %d not found", id)
	}
	return nil
}

func scanUser(row interface{ Scan(dest ...any) error }, notFoundFormat string, args ...any) (*domain.User, error) {
	var (
		user           domain.User
		passwordHash   sql.NullString
		oauthSubject   sql.NullString
		profilePicture sql.NullString
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&passwordHash,
		&oauthSubject,
		&profilePicture,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if nf := notFoundOnNoRows(err, notFoundFormat, args...); nf != err {
			return nil, nf
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.PasswordHash = passwordHash.String
	user.OAuthSubject = oauthSubject.String
	user.ProfilePicture = profilePicture.String
	return &user, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
