package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// TmpCleanupJob удаляет старые копии аудио из временной директории
type TmpCleanupJob struct {
	tmpDir string
	maxAge time.Duration
	logger *zap.Logger
}

// NewTmpCleanupJob создает задачу очистки временной директории
func NewTmpCleanupJob(tmpDir string, maxAge time.Duration, logger *zap.Logger) *TmpCleanupJob {
	return &TmpCleanupJob{
		tmpDir: tmpDir,
		maxAge: maxAge,
		logger: logger,
	}
}

// Name возвращает имя задачи
func (j *TmpCleanupJob) Name() string {
	return "tmp_cleanup"
}

// Run удаляет файлы старше maxAge
func (j *TmpCleanupJob) Run(ctx context.Context) error {
	removed, err := CleanupDir(j.tmpDir, j.maxAge, false, j.logger)
	if err != nil {
		return err
	}

	if removed > 0 {
		j.logger.Info("временная директория очищена",
			zap.String("dir", j.tmpDir),
			zap.Int("removed", removed))
	}
	return nil
}

// CleanupDir удаляет из директории mp3 файлы старше maxAge и возвращает
// количество удаленных. В режиме dryRun только считает.
func CleanupDir(dir string, maxAge time.Duration, dryRun bool, logger *zap.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp3" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn("не удалось прочитать атрибуты файла",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if dryRun {
			logger.Info("DRY RUN: файл будет удален", zap.String("file", path))
			removed++
			continue
		}

		if err := os.Remove(path); err != nil {
			logger.Warn("не удалось удалить файл",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		removed++
	}

	return removed, nil
}
