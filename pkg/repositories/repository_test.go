package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, "geoquiz.name")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	require.NoError(t, repo.Set(ctx, "geoquiz.name", "Alice"))
	got, err := repo.Get(ctx, "geoquiz.name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got)

	require.NoError(t, repo.Set(ctx, "geoquiz.name", "Bob"))
	got, err = repo.Get(ctx, "geoquiz.name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "geoquiz.db")

	repo, err := NewSQLiteRepository(ctx, path)
	require.NoError(t, err)
	exerciseRepository(t, repo)
	require.NoError(t, repo.Close(ctx))

	// the value survives reopening the file
	reopened, err := NewSQLiteRepository(ctx, path)
	require.NoError(t, err)
	defer reopened.Close(ctx)
	got, err := reopened.Get(ctx, "geoquiz.name")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got)
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("GEOQUIZ_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GEOQUIZ_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	repo, err := NewPostgresRepository(ctx, dsn)
	require.NoError(t, err)
	defer repo.Close(ctx)

	_, err = repo.conn.Exec(ctx, "DELETE FROM client_settings WHERE key = $1", "geoquiz.name")
	require.NoError(t, err)
	exerciseRepository(t, repo)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		stmts, err := migrations(dialect)
		require.NoError(t, err)
		assert.NotEmpty(t, stmts, dialect)
	}
}
