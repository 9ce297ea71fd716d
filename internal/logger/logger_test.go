package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	l, err := New(Config{Level: "info", Console: true})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "info", l.Zerolog().GetLevel().String())
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	l, err := New(Config{Level: "nonsense"})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "info", l.Zerolog().GetLevel().String())
}

func TestNew_CreatesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "backend.log")

	l, err := New(Config{Level: "debug", File: logPath})
	require.NoError(t, err)

	zl := l.Zerolog()
	zl.Info().Msg("hello")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
