package repositories

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations
var migrationsFS embed.FS

// Repository is a small durable key/value store for client settings.
type Repository interface {
	Close(ctx context.Context) error
	// Get returns ErrNotFound when key has never been set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

// migrations returns the contents of the embedded migrations for dialect, in file name order.
func migrations(dialect string) ([]string, error) {
	dir := "migrations/" + dialect
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		migrationPath := dir + "/" + entry.Name()
		migration, err := fs.ReadFile(migrationsFS, migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}
		out = append(out, string(migration))
	}
	return out, nil
}
