package voices

import (
	"context"
	"time"

	"go.uber.org/zap"

	"voxbot/internal/elevenlabs"
	"voxbot/internal/metrics"
	"voxbot/pkg/models"
)

// Fetcher абстрагирует загрузку каталога голосов для подмены в тестах
type Fetcher interface {
	GetVoices(ctx context.Context) ([]elevenlabs.RawVoice, error)
}

// Directory отдаёт каталог голосов с кешем на 10 минут.
// ListVoices никогда не возвращает ошибку: при недоступности сервиса
// подставляется единственный дефолтный голос.
type Directory struct {
	client         Fetcher
	cache          *listCache
	defaultVoiceID string
	logger         *zap.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewDirectory создает новый каталог голосов. Метрики опциональны.
func NewDirectory(client Fetcher, defaultVoiceID string, logger *zap.Logger, m *metrics.Metrics) *Directory {
	return &Directory{
		client:         client,
		cache:          newListCache(cacheTTL),
		defaultVoiceID: defaultVoiceID,
		logger:         logger,
		metrics:        m,
		now:            time.Now,
	}
}

// ListVoices возвращает каталог голосов: из кеша, с сети или дефолтный
func (d *Directory) ListVoices(ctx context.Context) []models.Voice {
	if cached, ok := d.cache.get(d.now()); ok {
		if d.metrics != nil {
			d.metrics.RecordCacheLookup(true)
		}
		return cached
	}
	if d.metrics != nil {
		d.metrics.RecordCacheLookup(false)
	}

	raw, err := d.client.GetVoices(ctx)
	if err != nil {
		// Фоллбек не кешируется, следующий вызов снова пойдёт в сеть
		d.logger.Error("не удалось получить каталог голосов", zap.Error(err))
		return d.fallback()
	}

	voices := normalize(raw)
	if len(voices) == 0 {
		voices = d.fallback()
	}

	d.cache.set(voices, d.now())
	if d.metrics != nil {
		d.metrics.SetVoicesAvailable(len(voices))
	}

	return voices
}

// normalize приводит сырые записи каталога к доменной модели.
// Записи без идентификатора отбрасываются, имя по умолчанию "Unnamed".
func normalize(raw []elevenlabs.RawVoice) []models.Voice {
	voices := make([]models.Voice, 0, len(raw))
	for _, r := range raw {
		id := r.VoiceID
		if id == "" {
			id = r.ID
		}
		if id == "" {
			continue
		}

		name := r.Name
		if name == "" {
			name = "Unnamed"
		}

		voices = append(voices, models.Voice{
			ID:     id,
			Name:   name,
			Labels: r.Labels,
		})
	}
	return voices
}

// fallback возвращает каталог из единственного дефолтного голоса
func (d *Directory) fallback() []models.Voice {
	return []models.Voice{{
		ID:     d.defaultVoiceID,
		Name:   "Default",
		Labels: map[string]string{},
	}}
}
