package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/geoquiz/pkg/log"
	"github.com/jackc/pgx/v5"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to connStr and applies the settings migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	if err := conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Debug("Connected to %s as %s", database, username)

	stmts, err := migrations("postgres")
	if err != nil {
		conn.Close(ctx)
		return nil, err
	}
	for i, migration := range stmts {
		if _, err := conn.Exec(ctx, migration); err != nil {
			conn.Close(ctx)
			return nil, fmt.Errorf("failed to execute migration %d: %v", i+1, err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) Get(ctx context.Context, key string) (string, error) {
	q := `
	SELECT value FROM client_settings WHERE key = $1;
	`
	var value string
	if err := r.conn.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &ErrNotFound{}
		}
		return "", fmt.Errorf("failed to scan setting: %v", err)
	}
	return value, nil
}

func (r *PostgresRepository) Set(ctx context.Context, key string, value string) error {
	q := `
	INSERT INTO client_settings (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now();
	`
	if _, err := r.conn.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("failed to save setting: %v", err)
	}
	return nil
}
