package store_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/docmatch/pkg/docmatch/store"
)

func TestMemoryStore_Len(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Save("a", []byte("a")))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Save("b", []byte("b")))
	require.NoError(t, s.Save("b", []byte("b2")))
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.Delete("a"))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	const numGoroutines = 100
	const numOps = 48

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()

			name := "q-" + string(rune('a'+id%26))
			for j := 0; j < numOps; j++ {
				switch j % 4 {
				case 0, 1:
					_ = s.Save(name, []byte("data"))
				case 2:
					_, _ = s.Load(name)
				case 3:
					_, _ = s.List()
				}
			}
		}(i)
	}
	wg.Wait()

	infos, err := s.List()
	require.NoError(t, err)
	assert.Len(t, infos, 26)

	var total int
	for _, info := range infos {
		total += info.Version
	}
	assert.Equal(t, numGoroutines*numOps/2, total)
}
