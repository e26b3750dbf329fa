package session

import (
	"context"
	"sync"
)

// Store хранит выбранный пользователем голос. Интерфейс позволяет подменить
// in-memory реализацию на персистентную, не трогая обработчики.
type Store interface {
	// Select сохраняет выбор голоса, перезаписывая предыдущий
	Select(ctx context.Context, userID int64, voiceID string) error

	// Resolve возвращает сохранённый голос или дефолтный, если выбора не было
	Resolve(ctx context.Context, userID int64, defaultVoiceID string) (string, error)
}

// MemoryStore хранит выбор голосов в памяти процесса.
// Записи не вытесняются и живут до рестарта.
type MemoryStore struct {
	mu     sync.RWMutex
	voices map[int64]string
}

// NewMemoryStore создает новое in-memory хранилище выбора голосов
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		voices: make(map[int64]string),
	}
}

// Select сохраняет выбор голоса пользователя
func (s *MemoryStore) Select(ctx context.Context, userID int64, voiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voices[userID] = voiceID
	return nil
}

// Resolve возвращает выбранный голос или дефолтный
func (s *MemoryStore) Resolve(ctx context.Context, userID int64, defaultVoiceID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if voiceID, ok := s.voices[userID]; ok && voiceID != "" {
		return voiceID, nil
	}
	return defaultVoiceID, nil
}
