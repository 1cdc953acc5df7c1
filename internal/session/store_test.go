package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeClock is a settable time source shared by a store under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// runStoreContract exercises the behaviour every Store must share.
func runStoreContract(t *testing.T, store Store, clock *fakeClock) {
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.Set(ctx, "abc", "tok-1", time.Hour))
	token, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Set(ctx, "abc", "tok-2", time.Hour))
	token, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNoToken)

	if clock == nil {
		return
	}

	require.NoError(t, store.Set(ctx, "short", "tok-3", time.Minute))
	require.NoError(t, store.Set(ctx, "forever", "tok-4", 0))
	clock.Advance(2 * time.Minute)

	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrNoToken)
	token, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "tok-4", token)
}

func TestMemoryStore(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryStore()
	store.now = clock.Now

	runStoreContract(t, store, clock)
	assert.Equal(t, 1, store.Len())
}

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store, err := NewSQLStore(db)
	require.NoError(t, err)
	return store
}

func TestSQLStore(t *testing.T) {
	clock := newFakeClock()
	store := newSQLiteStore(t)
	store.now = clock.Now

	runStoreContract(t, store, clock)
}

func TestSQLStorePurgeExpired(t *testing.T) {
	clock := newFakeClock()
	store := newSQLiteStore(t)
	store.now = clock.Now
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "t", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "t", time.Hour))
	require.NoError(t, store.Set(ctx, "c", "t", 0))
	clock.Advance(10 * time.Minute)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "b")
	assert.NoError(t, err)
}

func TestFileStore(t *testing.T) {
	clock := newFakeClock()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	store.now = clock.Now

	runStoreContract(t, store, clock)
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, store.Set(ctx, "../escape", "t", 0))
	_, err = store.Get(ctx, "a/b")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoToken)
}
