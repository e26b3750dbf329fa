package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"voxbot/internal/metrics"
)

const (
	// MaxTextLength максимальная длина текста для синтеза в символах
	MaxTextLength = 5000

	// modelID модель синтеза ElevenLabs
	modelID = "eleven_multilingual_v2"

	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75
)

// Client представляет клиент для работы с ElevenLabs API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	retryBase  time.Duration
}

// NewClient создает новый клиент ElevenLabs. Метрики опциональны.
func NewClient(apiKey, baseURL string, logger *zap.Logger, m *metrics.Metrics) *Client {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io/v1"
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:    logger,
		metrics:   m,
		retryBase: 500 * time.Millisecond,
	}
}

// RawVoice представляет запись каталога голосов как её отдаёт API.
// Идентификатор может прийти в любом из двух полей.
type RawVoice struct {
	VoiceID string            `json:"voice_id"`
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Labels  map[string]string `json:"labels"`
}

// voicesResponse представляет ответ каталога; список лежит под voices или data
type voicesResponse struct {
	Voices []RawVoice `json:"voices"`
	Data   []RawVoice `json:"data"`
}

// synthesizeRequest представляет тело запроса на синтез
type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// voiceSettings представляет параметры голоса при синтезе
type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// GetVoices запрашивает каталог голосов. При окончательной неудаче
// возвращает ошибку, подстановку дефолтного голоса делает вызывающая сторона.
func (c *Client) GetVoices(ctx context.Context) ([]RawVoice, error) {
	var voices []RawVoice

	err := c.withRetry(ctx, "get_voices", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
		if err != nil {
			return fmt.Errorf("ошибка создания запроса: %w", err)
		}
		req.Header.Set("xi-api-key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("ошибка выполнения запроса: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ошибка чтения ответа: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		var parsed voicesResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}

		voices = parsed.Voices
		if len(voices) == 0 {
			voices = parsed.Data
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("каталог голосов загружен", zap.Int("count", len(voices)))
	return voices, nil
}

// Synthesize преобразует текст в аудио выбранным голосом.
// Валидация текста выполняется до любых сетевых вызовов.
func (c *Client) Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error) {
	if text == "" {
		return nil, &InvalidInputError{Reason: "Пустой текст, нечего озвучивать"}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, &InvalidInputError{
			Reason: fmt.Sprintf("Слишком длинный текст (больше %d символов)", MaxTextLength),
		}
	}

	request := synthesizeRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       defaultStability,
			SimilarityBoost: defaultSimilarityBoost,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	accept := "application/json"
	if format == "mp3" {
		accept = "audio/mpeg"
	}

	var audio []byte
	err = c.withRetry(ctx, "synthesize", func(ctx context.Context) error {
		url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(requestBody))
		if err != nil {
			return fmt.Errorf("ошибка создания запроса: %w", err)
		}
		req.Header.Set("xi-api-key", c.apiKey)
		req.Header.Set("Accept", accept)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("ошибка выполнения запроса: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ошибка чтения ответа: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		audio = body
		return nil
	})
	if err != nil {
		// Детали уже в логах, пользователю уходит только общее сообщение
		return nil, ErrServiceUnavailable
	}

	c.logger.Info("синтез успешен",
		zap.String("voice_id", voiceID),
		zap.Int("audio_size", len(audio)))

	return audio, nil
}
