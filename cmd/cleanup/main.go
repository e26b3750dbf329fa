package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"voxbot/internal/config"
	"voxbot/internal/scheduler"
)

func main() {
	var (
		maxAge = flag.Duration("age", 24*time.Hour, "Минимальный возраст удаляемых файлов")
		dryRun = flag.Bool("dry-run", false, "Показать что будет удалено без фактического удаления")
	)
	flag.Parse()

	// Инициализация логгера
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	removed, err := scheduler.CleanupDir(cfg.Audio.TmpDir, *maxAge, *dryRun, logger)
	if err != nil {
		logger.Fatal("Ошибка очистки временной директории", zap.Error(err))
	}

	logger.Info("Очистка временной директории завершена",
		zap.String("dir", cfg.Audio.TmpDir),
		zap.Bool("dry_run", *dryRun),
		zap.Int("removed", removed))
}
