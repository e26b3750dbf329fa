package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	os.Setenv("TELEGRAM_BOT_TOKEN", "test_token")
	os.Setenv("ELEVENLABS_API_KEY", "test_api_key")
	os.Setenv("TMP_DIR", t.TempDir())
	defer os.Unsetenv("TELEGRAM_BOT_TOKEN")
	defer os.Unsetenv("ELEVENLABS_API_KEY")
	defer os.Unsetenv("TMP_DIR")

	// Загружаем конфигурацию
	cfg, err := Load()

	// Проверяем, что конфигурация загружена без ошибок
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Проверяем значения
	assert.Equal(t, "test_token", cfg.Telegram.BotToken)
	assert.Equal(t, "test_api_key", cfg.ElevenLabs.APIKey)

	// Проверяем значения по умолчанию
	assert.Equal(t, "https://api.elevenlabs.io/v1", cfg.ElevenLabs.BaseURL)
	assert.Equal(t, "EXAVITQu4vr4xnSDxMaL", cfg.ElevenLabs.DefaultVoiceID)
	assert.Equal(t, "mp3", cfg.Audio.Format)
	assert.Equal(t, "voice", cfg.Audio.SendAs)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.False(t, cfg.UsesDatabase())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test_user",
		Password: "test_password",
		Name:     "test_db",
		SSLMode:  "disable",
	}

	dsn := cfg.GetDSN()
	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	assert.Equal(t, expected, dsn)
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями: ошибка перечисляет все поля сразу
	cfg := &Config{}
	err := validateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "ELEVENLABS_API_KEY")
	assert.Contains(t, err.Error(), "AUDIO_FORMAT")

	// Тест с корректной конфигурацией
	cfg = &Config{
		Telegram: TelegramConfig{
			BotToken: "test_token",
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:         "test_key",
			DefaultVoiceID: "v0",
		},
		Audio: AudioConfig{
			Format: "mp3",
			SendAs: "voice",
		},
	}
	err = validateConfig(cfg)
	assert.NoError(t, err)
}

func TestValidateConfigRejectsUnknownFormat(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{BotToken: "test_token"},
		ElevenLabs: ElevenLabsConfig{
			APIKey:         "test_key",
			DefaultVoiceID: "v0",
		},
		Audio: AudioConfig{
			Format: "ogg",
			SendAs: "voice",
		},
	}

	err := validateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIO_FORMAT")
}

func TestValidateConfigPartialDatabase(t *testing.T) {
	cfg := &Config{
		Telegram: TelegramConfig{BotToken: "test_token"},
		ElevenLabs: ElevenLabsConfig{
			APIKey:         "test_key",
			DefaultVoiceID: "v0",
		},
		Audio: AudioConfig{
			Format: "mp3",
			SendAs: "audio",
		},
		Database: DatabaseConfig{
			Host: "localhost",
		},
	}

	err := validateConfig(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
}
