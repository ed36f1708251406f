package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"mangasearch/pkg/database"
	"mangasearch/pkg/models"
)

func openSQLite(t *testing.T) *Repo {
	t.Helper()
	cfg := database.Config{DSN: filepath.Join(t.TempDir(), "history.db")}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, cfg.Dialect()))
	return NewRepo(db, cfg.Dialect())
}

// openPostgres starts a throwaway PostgreSQL container.
func openPostgres(t *testing.T) *Repo {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "mangasearch",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.Config{DSN: fmt.Sprintf("postgres://testuser:testpass@%s:%s/mangasearch?sslmode=disable", host, port.Port())}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, cfg.Dialect()))
	return NewRepo(db, cfg.Dialect())
}

func exerciseOrdering(t *testing.T, repo *Repo) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	t1 := models.HistoryEntry{ID: "e1", SearchQuery: "berserk", Timestamp: base}
	t2 := models.HistoryEntry{ID: "e2", SearchQuery: "vagabond", Timestamp: base.Add(1500 * time.Millisecond)}
	t3 := models.HistoryEntry{ID: "e3", SearchQuery: "monster", Timestamp: base.Add(time.Hour)}

	// insertion order differs from time order
	for _, e := range []models.HistoryEntry{t2, t3, t1} {
		require.NoError(t, repo.Insert(ctx, e))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"e3", "e2", "e1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "monster", got[0].SearchQuery)
	assert.True(t, got[0].Timestamp.Equal(t3.Timestamp), "got %v want %v", got[0].Timestamp, t3.Timestamp)
	assert.True(t, got[1].Timestamp.Equal(t2.Timestamp), "got %v want %v", got[1].Timestamp, t2.Timestamp)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRepo_SQLite_ListMostRecentFirst(t *testing.T) {
	exerciseOrdering(t, openSQLite(t))
}

func TestRepo_Postgres_ListMostRecentFirst(t *testing.T) {
	exerciseOrdering(t, openPostgres(t))
}

func TestRepo_SQLite_EmptyList(t *testing.T) {
	repo := openSQLite(t)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepo_SQLite_DuplicateIDRejected(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()
	e := models.HistoryEntry{ID: "same", SearchQuery: "a", Timestamp: time.Now()}

	require.NoError(t, repo.Insert(ctx, e))
	assert.Error(t, repo.Insert(ctx, e))
}

func TestRepo_ClosedDatabase(t *testing.T) {
	repo := openSQLite(t)
	require.NoError(t, repo.DB.Close())

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}
