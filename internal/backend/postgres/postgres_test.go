package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"record-store-go/internal/db"
	"record-store-go/internal/domain/document"
	"record-store-go/internal/store"
	"record-store-go/pkg/logger"
)

var (
	_ store.Backend[*document.Document]     = (*Backend[*document.Document])(nil)
	_ store.BatchPutter[*document.Document] = (*Backend[*document.Document])(nil)
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to cleanup postgres container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, logger.Nop()))
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

func TestBackendAgainstPostgres(t *testing.T) {
	gormDB := newTestDB(t)
	ctx := context.Background()
	b := New[*document.Document](gormDB, document.TableName)

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, &document.Document{ID: "a", Title: "first"}))

		got, ok, err := b.Get(ctx, "a")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "first", got.Title)
		require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

		_, ok, err = b.Get(ctx, "missing")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, b.Put(ctx, &document.Document{ID: "a", Title: "second"}))
		got, ok, err := b.Get(ctx, "a")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "second", got.Title)
	})

	t.Run("batch upsert keeps request order", func(t *testing.T) {
		require.NoError(t, b.PutBatch(ctx, []*document.Document{
			{ID: "c", Title: "c"},
			{ID: "b", Title: "b"},
			{ID: "a", Title: "third"},
		}))

		got, err := b.GetBatch(ctx, []string{"c", "missing", "a", "b"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
		require.Equal(t, "third", got[1].Title)
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, b.Delete(ctx, "a"))
		require.NoError(t, b.Delete(ctx, "never-existed"))
		require.NoError(t, b.DeleteBatch(ctx, []string{"b"}))
		require.NoError(t, b.DeleteBatchByValue(ctx, []*document.Document{{ID: "c"}}))

		got, err := b.GetBatch(ctx, []string{"a", "b", "c"})
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("behind a store", func(t *testing.T) {
		s, err := store.New[*document.Document](b, store.Config[*document.Document]{Name: "documents", PartitionSize: 2})
		require.NoError(t, err)

		docs := []*document.Document{{ID: "d1", Title: "1"}, {ID: "d2", Title: "2"}, {ID: "d3", Title: "3"}}
		require.NoError(t, s.PutAll(ctx, docs...))

		got, err := s.GetAll(ctx, "d1", "d2", "d3")
		require.NoError(t, err)
		require.Len(t, got, 3)

		require.NoError(t, s.DeleteAllOf(ctx, "d1", docs[1]))
		got, err = s.GetAll(ctx, "d1", "d2", "d3")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "d3", got[0].ID)
	})
}

func TestOrderByIDs(t *testing.T) {
	rows := []*document.Document{{ID: "b"}, {ID: "a"}, {ID: "c"}}

	got := orderByIDs(rows, []string{"a", "x", "c", "b", "a"})
	require.Equal(t, []string{"a", "c", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
	require.Len(t, got, 3)
}
