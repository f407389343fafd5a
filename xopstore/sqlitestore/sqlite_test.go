package sqlitestore_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/xoplog/sessiontrace/xopstore/sqlitestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := sqlitestore.Open(path)
	require.NoError(t, err, "open")

	_, found, err := store.Get(ctx, "traceparent")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "traceparent", "a"))
	require.NoError(t, store.Set(ctx, "traceparent", "b"))
	v, found, err := store.Get(ctx, "traceparent")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "b", v)

	require.NoError(t, store.Set(ctx, "trace_id", "t"))
	require.NoError(t, store.Delete(ctx, "traceparent"))
	_, found, err = store.Get(ctx, "traceparent")
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, store.Close())

	reopened, err := sqlitestore.Open(path)
	require.NoError(t, err, "reopen")
	defer reopened.Close()
	v, found, err = reopened.Get(ctx, "trace_id")
	require.NoError(t, err)
	assert.True(t, found, "persisted")
	assert.Equal(t, "t", v)
}

func TestSqliteStoreConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	store, err := sqlitestore.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	defer store.Close()

	const writers = 32
	const rounds = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers*rounds*2)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				if err := store.Set(ctx, "xop.traceparent", fmt.Sprintf("%d-%d", i, j)); err != nil {
					errs <- err
				}
				if _, _, err := store.Get(ctx, "xop.traceparent"); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, store.Set(ctx, "xop.traceparent", "last"))
	v, found, err := store.Get(ctx, "xop.traceparent")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "last", v)
}
