package store_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docmatch/pkg/docmatch/store"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "queries.db")

	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save("open", []byte(`{"status":"open"}`)))
	require.NoError(t, store1.Save("open", []byte(`{"status":"new"}`)))
	require.NoError(t, store1.Close())

	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	data, err := store2.Load("open")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"status":"new"}`), data)

	info, err := store2.Stat("open")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Version)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/queries.db")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	const numGoroutines = 20
	const numOps = 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			name := fmt.Sprintf("q-%d", id%5)
			for j := 0; j < numOps; j++ {
				switch j % 3 {
				case 0:
					_ = s.Save(name, []byte("data"))
				case 1:
					_, _ = s.Load(name)
				case 2:
					_, _ = s.List()
				}
			}
		}(i)
	}
	wg.Wait()

	infos, err := s.List()
	require.NoError(t, err)
	assert.Len(t, infos, 5)

	var total int
	for _, info := range infos {
		total += info.Version
	}
	// Every goroutine saves on j = 0, 3, 6, 9.
	assert.Equal(t, numGoroutines*4, total)
}
