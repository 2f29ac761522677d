package utils

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", true)

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("frequent", 3))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"frequent":3`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestAppErrorUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := NewAppError("ingest.read", "bad row", base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "ingest.read: bad row: boom", err.Error())

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ingest.read: missing", NewAppError("ingest.read", "missing", nil).Error())
}

func TestLineErrors(t *testing.T) {
	base := errors.New("invalid syntax")
	err := NewLineError("ingest.row", 7, "outcome", base)
	assert.Equal(t, "ingest.row: line 7: outcome: invalid syntax", err.Error())
	assert.ErrorIs(t, err, base)

	line, ok := LineOf(fmt.Errorf("load: %w", err))
	assert.True(t, ok)
	assert.Equal(t, 7, line)

	_, ok = LineOf(NewAppError("ingest.open", "data.csv", base))
	assert.False(t, ok)
	_, ok = LineOf(base)
	assert.False(t, ok)
}
