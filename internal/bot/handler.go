package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"voxbot/internal/elevenlabs"
	"voxbot/internal/metrics"
	"voxbot/internal/session"
	"voxbot/internal/voices"
)

// Synthesizer абстрагирует сервис синтеза речи
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, format string) ([]byte, error)
}

// Config содержит настройки обработчика
type Config struct {
	DefaultVoiceID string
	AudioFormat    string
	SendAs         string // voice или audio
	TmpDir         string
}

// Handler представляет обработчик сообщений Telegram
type Handler struct {
	bot         *tgbotapi.BotAPI
	speech      Synthesizer
	directory   *voices.Directory
	sessions    session.Store
	messages    *Messages
	logger      *zap.Logger
	metrics     *metrics.Metrics
	rateLimiter *RateLimiter
	cfg         Config
}

// NewHandler создает новый обработчик
func NewHandler(
	bot *tgbotapi.BotAPI,
	speech Synthesizer,
	directory *voices.Directory,
	sessions session.Store,
	logger *zap.Logger,
	m *metrics.Metrics,
	cfg Config,
) *Handler {
	return &Handler{
		bot:         bot,
		speech:      speech,
		directory:   directory,
		sessions:    sessions,
		messages:    NewMessages(),
		logger:      logger,
		metrics:     m,
		rateLimiter: NewRateLimiter(),
		cfg:         cfg,
	}
}

// HandleUpdate обрабатывает входящее обновление
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// Получаем ID пользователя для rate limiting
	var userID int64
	if update.Message != nil && update.Message.From != nil {
		userID = update.Message.From.ID
	} else if update.CallbackQuery != nil {
		userID = update.CallbackQuery.From.ID
	}

	if userID != 0 && !h.rateLimiter.IsAllowed(userID) {
		h.logger.Warn("rate limit exceeded", zap.Int64("user_id", userID))
		if update.Message != nil {
			return h.sendMessage(update.Message.Chat.ID, h.messages.TooManyRequests())
		}
		// Для callback просто игнорируем
		return nil
	}

	// Обрабатываем inline кнопки
	if update.CallbackQuery != nil {
		return h.handleCallbackQuery(ctx, update.CallbackQuery)
	}

	if update.Message == nil {
		return nil
	}

	h.logger.Debug("получено обновление",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text))

	// Обрабатываем команды
	if update.Message.IsCommand() {
		return h.handleCommand(ctx, update.Message)
	}

	// Любой другой текст озвучиваем
	if update.Message.Text != "" {
		return h.handleText(ctx, update.Message)
	}

	return nil
}

// handleCommand обрабатывает команды
func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start", "voice":
		return h.sendVoiceKeyboard(ctx, message.Chat.ID)
	case "help":
		return h.sendMessage(message.Chat.ID, h.messages.Help())
	default:
		return h.sendMessage(message.Chat.ID, h.messages.UnknownCommand())
	}
}

// sendVoiceKeyboard отправляет клавиатуру выбора голоса (первая страница)
func (h *Handler) sendVoiceKeyboard(ctx context.Context, chatID int64) error {
	voiceList := h.directory.ListVoices(ctx)
	rows, _ := PaginateVoices(voiceList, 0)

	msg := tgbotapi.NewMessage(chatID, h.messages.ChooseVoice())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("ошибка отправки клавиатуры голосов: %w", err)
	}
	return nil
}

// handleCallbackQuery обрабатывает нажатия inline кнопок
func (h *Handler) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Подтверждаем нажатие, чтобы у пользователя пропали "часики"
	if _, err := h.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		h.logger.Warn("ошибка подтверждения callback", zap.Error(err))
	}

	if query.Message == nil {
		return nil
	}

	data := query.Data
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch {
	case strings.HasPrefix(data, callbackPage):
		page, err := strconv.Atoi(strings.TrimPrefix(data, callbackPage))
		if err != nil || page < 0 {
			page = 0
		}
		return h.editVoiceKeyboard(ctx, chatID, messageID, page)

	case data == callbackRefresh:
		return h.editVoiceKeyboard(ctx, chatID, messageID, 0)

	case strings.HasPrefix(data, callbackPick):
		voiceID := strings.TrimPrefix(data, callbackPick)
		if err := h.sessions.Select(ctx, query.From.ID, voiceID); err != nil {
			h.logger.Error("ошибка сохранения выбора голоса",
				zap.Int64("user_id", query.From.ID),
				zap.Error(err))
			return h.sendMessage(chatID, h.messages.ServiceOverloaded())
		}

		h.logger.Info("голос выбран",
			zap.Int64("user_id", query.From.ID),
			zap.String("voice_id", voiceID))

		edit := tgbotapi.NewEditMessageText(chatID, messageID, h.messages.VoiceSelected())
		if _, err := h.bot.Send(edit); err != nil {
			return fmt.Errorf("ошибка редактирования сообщения: %w", err)
		}
		return nil
	}

	return nil
}

// editVoiceKeyboard перерисовывает клавиатуру голосов на заданной странице
func (h *Handler) editVoiceKeyboard(ctx context.Context, chatID int64, messageID, page int) error {
	voiceList := h.directory.ListVoices(ctx)
	rows, _ := PaginateVoices(voiceList, page)

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, tgbotapi.NewInlineKeyboardMarkup(rows...))
	if _, err := h.bot.Send(edit); err != nil {
		// Telegram возвращает ошибку, если клавиатура не изменилась
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("ошибка обновления клавиатуры: %w", err)
	}
	return nil
}

// handleText озвучивает текст выбранным голосом
func (h *Handler) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	text := message.Text

	voiceID, err := h.sessions.Resolve(ctx, userID, h.cfg.DefaultVoiceID)
	if err != nil {
		h.logger.Error("ошибка получения выбора голоса",
			zap.Int64("user_id", userID),
			zap.Error(err))
		voiceID = h.cfg.DefaultVoiceID
	}

	start := time.Now()
	audio, err := h.speech.Synthesize(ctx, text, voiceID, h.cfg.AudioFormat)
	if err != nil {
		var invalidErr *elevenlabs.InvalidInputError
		if errors.As(err, &invalidErr) {
			// Локальная ошибка валидации показывается как есть
			if h.metrics != nil {
				h.metrics.RecordSynthRequest("invalid_input", 0)
			}
			return h.sendMessage(message.Chat.ID, invalidErr.Reason)
		}

		if h.metrics != nil {
			h.metrics.RecordSynthRequest("unavailable", 0)
		}
		return h.sendMessage(message.Chat.ID, h.messages.ServiceOverloaded())
	}

	if h.metrics != nil {
		h.metrics.RecordSynthRequest("success", time.Since(start).Seconds())
	}

	fileName := fmt.Sprintf("tts_%s_%d.mp3", voiceID, utf8.RuneCountInString(text))
	h.saveLocalCopy(fileName, audio)

	return h.sendAudio(message.Chat.ID, fileName, voiceID, audio)
}

// sendAudio отправляет аудио согласно SEND_AS плюс mp3 файл для сохранения.
// При неудаче голосового сообщения пробует отправку как audio.
func (h *Handler) sendAudio(chatID int64, fileName, voiceID string, audio []byte) error {
	file := tgbotapi.FileBytes{Name: fileName, Bytes: audio}

	var err error
	if h.cfg.SendAs == "voice" {
		_, err = h.bot.Send(tgbotapi.NewVoice(chatID, file))
	} else {
		err = h.sendAsAudio(chatID, file)
	}

	if err == nil {
		err = h.sendDocument(chatID, file, voiceID)
	}

	if err != nil {
		h.logger.Warn("ошибка отправки аудио, пробуем fallback", zap.Error(err))

		if fallbackErr := h.sendAsAudio(chatID, file); fallbackErr == nil {
			return h.sendDocument(chatID, file, voiceID)
		}
		return h.sendMessage(chatID, h.messages.SendFailed())
	}

	return nil
}

// sendAsAudio отправляет аудио как audio-вложение
func (h *Handler) sendAsAudio(chatID int64, file tgbotapi.FileBytes) error {
	audioMsg := tgbotapi.NewAudio(chatID, file)
	audioMsg.Title = "TTS"

	if _, err := h.bot.Send(audioMsg); err != nil {
		return fmt.Errorf("ошибка отправки audio: %w", err)
	}
	return nil
}

// sendDocument отправляет mp3 файлом, чтобы его можно было сохранить
func (h *Handler) sendDocument(chatID int64, file tgbotapi.FileBytes, voiceID string) error {
	doc := tgbotapi.NewDocument(chatID, file)
	doc.Caption = "Файл: " + voiceID

	if _, err := h.bot.Send(doc); err != nil {
		return fmt.Errorf("ошибка отправки документа: %w", err)
	}
	return nil
}

// saveLocalCopy сохраняет копию аудио во временную директорию.
// Ошибки не прерывают отправку, старые копии убирает cleanup.
func (h *Handler) saveLocalCopy(fileName string, audio []byte) {
	if h.cfg.TmpDir == "" {
		return
	}

	path := filepath.Join(h.cfg.TmpDir, fileName)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		h.logger.Warn("не удалось сохранить копию аудио",
			zap.String("path", path),
			zap.Error(err))
	}
}

// sendMessage отправляет текстовое сообщение
func (h *Handler) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("ошибка отправки сообщения: %w", err)
	}
	return nil
}
