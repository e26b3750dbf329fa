package elevenlabs

import (
	"errors"
	"fmt"
)

// InvalidInputError представляет локальную ошибку валидации текста.
// Такая ошибка не ретраится и показывается пользователю как есть.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// APIError представляет ответ сервиса с неуспешным HTTP статусом
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("неуспешный статус от ElevenLabs: %d, тело: %s", e.StatusCode, e.Body)
}

// ErrServiceUnavailable возвращается после исчерпания всех попыток синтеза.
// Текст безопасен для показа пользователю, детали остаются в серверных логах.
var ErrServiceUnavailable = errors.New("не удалось сгенерировать аудио, попробуйте позже")
