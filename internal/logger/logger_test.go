package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterPlain(t *testing.T) {
	f := &Formatter{DisableColor: true, TimestampFormat: "15:04"}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "load failed",
		Data:    logrus.Fields{"path": "user/address", "actor": "addr1"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "09:30 [WARNING] load failed actor=addr1 path=user/address\n", string(out))
}

func TestFormatterColor(t *testing.T) {
	f := &Formatter{HideLogTime: true}
	out, err := f.Format(&logrus.Entry{Level: logrus.ErrorLevel, Message: "boom"})
	require.NoError(t, err)
	assert.Equal(t, "\033[31m[ERROR] boom\033[0m\n", string(out))
}

func TestFileHookWritesLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	hook, err := NewFileHook(dir)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.AddHook(hook)
	log.Info("hello from the hook")

	files, err := filepath.Glob(filepath.Join(dir, LogFileName+".*"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the hook")
}

func TestInitLevels(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetOutput(os.Stderr)
	})

	require.NoError(t, Init(Options{Verbose: true, Quiet: true}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	require.NoError(t, Init(Options{}))
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
