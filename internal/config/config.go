package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Telegram   TelegramConfig
	ElevenLabs ElevenLabsConfig
	Audio      AudioConfig
	Database   DatabaseConfig
	App        AppConfig
}

// TelegramConfig содержит настройки Telegram бота
type TelegramConfig struct {
	BotToken string
}

// ElevenLabsConfig содержит настройки ElevenLabs API
type ElevenLabsConfig struct {
	APIKey         string
	BaseURL        string
	DefaultVoiceID string
}

// AudioConfig содержит настройки отправки аудио
type AudioConfig struct {
	Format string // поддерживается только mp3
	SendAs string // voice или audio
	TmpDir string
}

// DatabaseConfig содержит настройки опционального Postgres-хранилища выбора голосов
type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationPath string
}

// AppConfig содержит общие настройки приложения
type AppConfig struct {
	Env      string
	LogLevel string
	Port     int
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Telegram
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	// ElevenLabs
	cfg.ElevenLabs.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.ElevenLabs.BaseURL = getEnvDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1")
	cfg.ElevenLabs.DefaultVoiceID = getEnvDefault("DEFAULT_VOICE_ID", "EXAVITQu4vr4xnSDxMaL")

	// Audio
	cfg.Audio.Format = getEnvDefault("AUDIO_FORMAT", "mp3")
	cfg.Audio.SendAs = getEnvDefault("SEND_AS", "voice")
	cfg.Audio.TmpDir = getEnvDefault("TMP_DIR", "./tmp")

	// Database (опционально: без DB_HOST выбор голосов живёт в памяти процесса)
	cfg.Database.Host = os.Getenv("DB_HOST")
	cfg.Database.Port = getEnvIntDefault("DB_PORT", 5432)
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.SSLMode = getEnvDefault("DB_SSL_MODE", "disable")
	cfg.Database.MigrationPath = getEnvDefault("MIGRATION_PATH", "scripts/migrations")

	// App
	cfg.App.Env = getEnvDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvDefault("LOG_LEVEL", "info")
	cfg.App.Port = getEnvIntDefault("APP_PORT", 8080)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	if err := os.MkdirAll(cfg.Audio.TmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания временной директории: %w", err)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// validateConfig проверяет корректность конфигурации и собирает все
// проблемные поля в одну ошибку
func validateConfig(config *Config) error {
	var invalid []string

	if config.Telegram.BotToken == "" {
		invalid = append(invalid, "TELEGRAM_BOT_TOKEN")
	}
	if config.ElevenLabs.APIKey == "" {
		invalid = append(invalid, "ELEVENLABS_API_KEY")
	}
	if config.ElevenLabs.DefaultVoiceID == "" {
		invalid = append(invalid, "DEFAULT_VOICE_ID")
	}
	if config.Audio.Format != "mp3" {
		invalid = append(invalid, "AUDIO_FORMAT (поддерживается только mp3)")
	}
	if config.Audio.SendAs != "voice" && config.Audio.SendAs != "audio" {
		invalid = append(invalid, "SEND_AS (допустимо voice или audio)")
	}

	// База опциональна, но если указан хост — нужны все реквизиты
	if config.Database.Host != "" {
		if config.Database.User == "" {
			invalid = append(invalid, "DB_USER")
		}
		if config.Database.Password == "" {
			invalid = append(invalid, "DB_PASSWORD")
		}
		if config.Database.Name == "" {
			invalid = append(invalid, "DB_NAME")
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("отсутствуют или некорректны переменные окружения: %s", strings.Join(invalid, ", "))
	}

	return nil
}

// UsesDatabase сообщает, настроено ли Postgres-хранилище
func (c *Config) UsesDatabase() bool {
	return c.Database.Host != ""
}

// GetDSN возвращает строку подключения к базе данных
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
