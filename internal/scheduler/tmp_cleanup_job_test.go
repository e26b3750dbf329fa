package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanupDir(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()

	oldFile := filepath.Join(dir, "tts_v1_10.mp3")
	freshFile := filepath.Join(dir, "tts_v2_20.mp3")
	otherFile := filepath.Join(dir, "notes.txt")

	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(freshFile, []byte("fresh"), 0o644))
	require.NoError(t, os.WriteFile(otherFile, []byte("keep"), 0o644))

	// Состариваем один файл
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	removed, err := CleanupDir(dir, 24*time.Hour, false, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))

	// Свежий mp3 и посторонний файл не тронуты
	_, err = os.Stat(freshFile)
	assert.NoError(t, err)
	_, err = os.Stat(otherFile)
	assert.NoError(t, err)
}

func TestCleanupDirDryRun(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()

	oldFile := filepath.Join(dir, "tts_v1_10.mp3")
	require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldFile, past, past))

	removed, err := CleanupDir(dir, 24*time.Hour, true, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// В dry-run режиме файл остается
	_, err = os.Stat(oldFile)
	assert.NoError(t, err)
}

func TestTmpCleanupJob(t *testing.T) {
	dir := t.TempDir()
	job := NewTmpCleanupJob(dir, 24*time.Hour, zap.NewNop())

	assert.Equal(t, "tmp_cleanup", job.Name())
	assert.NoError(t, job.Run(context.Background()))
}
