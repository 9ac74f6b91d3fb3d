package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"melodex/internal/domain"
)

// Open opens (or creates) a sqlite database at the given path and ensures
// directories exist.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// single writer keeps sqlite happy under concurrent requests
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// OpenMemory opens a private in-memory database, used by tests.
func OpenMemory() (*sql.DB, error) {
	return Open(":memory:")
}

// translateErr maps driver failures onto the domain error taxonomy. The
// schema's unique constraints are the authoritative guard against races
// that pass the service-level pre-checks, so their rejections must look
// identical to the pre-check failures.
func translateErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "unique constraint") {
		return &domain.Error{Kind: domain.KindConflict, Message: msg, Err: err}
	}
	if strings.Contains(lower, "foreign key constraint") {
		return &domain.Error{Kind: domain.KindNotFound, Message: msg, Err: err}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// notFoundOnNoRows converts sql.ErrNoRows into a NotFound domain error.
func notFoundOnNoRows(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf(format, args...)
	}
	return err
}
