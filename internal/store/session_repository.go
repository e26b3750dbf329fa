package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SessionRepository хранит выбор голосов в Postgres.
// Реализует session.Store и переживает рестарт процесса.
type SessionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewSessionRepository создает новый репозиторий выбора голосов
func NewSessionRepository(db *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

// Select сохраняет выбор голоса, перезаписывая предыдущий
func (r *SessionRepository) Select(ctx context.Context, userID int64, voiceID string) error {
	query := `
		INSERT INTO user_voices (user_id, voice_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET voice_id = $2, updated_at = now()`

	if _, err := r.db.Exec(ctx, query, userID, voiceID); err != nil {
		return fmt.Errorf("ошибка сохранения выбора голоса: %w", err)
	}

	r.logger.Debug("выбор голоса сохранен",
		zap.Int64("user_id", userID),
		zap.String("voice_id", voiceID))

	return nil
}

// Resolve возвращает выбранный голос или дефолтный
func (r *SessionRepository) Resolve(ctx context.Context, userID int64, defaultVoiceID string) (string, error) {
	query := `SELECT voice_id FROM user_voices WHERE user_id = $1`

	var voiceID string
	err := r.db.QueryRow(ctx, query, userID).Scan(&voiceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultVoiceID, nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка получения выбора голоса: %w", err)
	}

	if voiceID == "" {
		return defaultVoiceID, nil
	}
	return voiceID, nil
}
