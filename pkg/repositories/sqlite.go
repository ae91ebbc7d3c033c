package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	stmts, err := migrations("sqlite")
	if err != nil {
		db.Close()
		return nil, err
	}
	for i, migration := range stmts {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	q := `
	SELECT value FROM settings WHERE key = ?;
	`
	var value string
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", &ErrNotFound{}
		}
		return "", fmt.Errorf("failed to scan setting: %v", err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	q := `
	INSERT OR REPLACE INTO settings (key, value, updated_at)
	VALUES (?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, q, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save setting: %v", err)
	}
	return nil
}
