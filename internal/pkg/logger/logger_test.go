package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infobez-lab-rsa/internal/pkg/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		settings *config.LoggerSettings
		wantErr  bool
	}{
		{
			name:     "console logger",
			settings: &config.LoggerSettings{LogLevel: config.LogLevelInfo, LogType: config.LogTypeConsole},
		},
		{
			name: "file logger with rotation",
			settings: &config.LoggerSettings{
				LogLevel:   config.LogLevelDebug,
				LogType:    config.LogTypeFile,
				FilePath:   filepath.Join(t.TempDir(), "keygen.log"),
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     28,
			},
		},
		{
			name:     "invalid log level",
			settings: &config.LoggerSettings{LogLevel: "invalid", LogType: config.LogTypeConsole},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestFileLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygen.log")
	l := NewFileLogger(config.LogLevelInfo, path, 1, 1, 1)

	l.Debug("hidden")
	l.Info("prime found ", 107)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"prime found 107"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestCloseFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygen.log")
	l := NewFileLogger(config.LogLevelInfo, path, 1, 1, 1)
	l.Info("opened")

	require.NoError(t, Close(l))
	require.NoError(t, Close(l))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "opened")

	assert.NoError(t, Close(NewConsoleLogger(config.LogLevelInfo)))
	assert.NoError(t, Close(Nop()))
}

func TestTextLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newTextLogger(&buf, config.LogLevelWarning)

	l.Info("skipped")
	l.Warn("resampled")
	l.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "resampled")
	assert.Contains(t, out, "failed")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(config.LogLevelDebug))
	assert.Equal(t, slog.LevelWarn, parseLevel(config.LogLevelWarning))
	assert.Equal(t, slog.LevelError, parseLevel(config.LogLevelError))
	assert.Equal(t, slog.LevelInfo, parseLevel("unknown"))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}
