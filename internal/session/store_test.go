package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Select(ctx, 1, "v2")
	assert.NoError(t, err)

	voiceID, err := store.Resolve(ctx, 1, "v0")
	assert.NoError(t, err)
	assert.Equal(t, "v2", voiceID)

	// Пользователь без выбора получает дефолт
	voiceID, err = store.Resolve(ctx, 2, "v0")
	assert.NoError(t, err)
	assert.Equal(t, "v0", voiceID)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.Select(ctx, 1, "v1")
	_ = store.Select(ctx, 1, "v3")

	voiceID, _ := store.Resolve(ctx, 1, "v0")
	assert.Equal(t, "v3", voiceID)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			_ = store.Select(ctx, id, "v1")
		}(int64(i))
		go func(id int64) {
			defer wg.Done()
			_, _ = store.Resolve(ctx, id, "v0")
		}(int64(i))
	}
	wg.Wait()

	voiceID, err := store.Resolve(ctx, 10, "v0")
	assert.NoError(t, err)
	assert.Equal(t, "v1", voiceID)
}
