package voices

import (
	"sync"
	"time"

	"voxbot/pkg/models"
)

// cacheTTL окно свежести каталога голосов
const cacheTTL = 10 * time.Minute

// listCache хранит последний успешно загруженный каталог голосов.
// Одна копия на процесс, без персистентности — теряется при рестарте.
type listCache struct {
	mu        sync.RWMutex
	value     []models.Voice
	fetchedAt time.Time
	ttl       time.Duration
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{ttl: ttl}
}

// get возвращает кешированный каталог, если он ещё свежий
func (c *listCache) get(now time.Time) ([]models.Voice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil {
		return nil, false
	}
	if now.Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return c.value, true
}

// set сохраняет каталог с текущей отметкой времени
func (c *listCache) set(value []models.Voice, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.fetchedAt = now
}
