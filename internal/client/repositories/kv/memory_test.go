package kv

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, found, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.Set(ctx, "k", "v"))
	v, found, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	require.NoError(t, r.Delete(ctx, "k"))
	_, found, _ = r.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemory_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Update(ctx, "n", func(cur string, _ bool) (string, error) {
				return cur + "x", nil
			})
		}()
	}
	wg.Wait()

	v, _, err := r.Get(ctx, "n")
	require.NoError(t, err)
	assert.Len(t, v, 50)
}
