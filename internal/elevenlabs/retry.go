package elevenlabs

import (
	"context"
	"errors"
	"net/http"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	// Всего 4 попытки: первая сразу, затем паузы 0.5с, 1с и 2с
	maxRetries = 3
)

// failureClass классифицирует исход неудачной попытки
type failureClass string

const (
	classRateLimited failureClass = "rate_limited"
	classServerError failureClass = "server_error"
	classClientError failureClass = "client_error"
	classTransport   failureClass = "transport"
)

// classify определяет класс ошибки по ответу сервиса.
// Ошибки без HTTP статуса (таймаут, обрыв соединения) считаются транспортными.
func classify(err error) failureClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return classRateLimited
		case apiErr.StatusCode >= 500:
			return classServerError
		default:
			return classClientError
		}
	}
	return classTransport
}

// retryable сообщает, имеет ли смысл повторять попытку для данного класса
func (fc failureClass) retryable() bool {
	return fc != classClientError
}

// withRetry выполняет fn по общему для обеих операций расписанию.
// 429 и 5xx ретраятся наравне с транспортными ошибками, прочие 4xx
// завершают цикл немедленно.
func (c *Client) withRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	attempt := 0
	var lastClass failureClass

	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(c.retryBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastClass = classify(err)
		if c.metrics != nil {
			c.metrics.RecordRetryAttempt(operation, string(lastClass))
		}
		c.logger.Warn("попытка запроса к ElevenLabs не удалась",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.String("class", string(lastClass)),
			zap.Error(err))

		if !lastClass.retryable() {
			return err
		}
		return retry.RetryableError(err)
	})

	if err != nil {
		c.logger.Error("запрос к ElevenLabs окончательно не удался",
			zap.String("operation", operation),
			zap.Int("attempts", attempt),
			zap.String("class", string(lastClass)),
			zap.Error(err))
	}

	return err
}
