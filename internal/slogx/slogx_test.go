package slogx

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch chan string) []string {
	var out []string
	for {
		select {
		case line := <-ch:
			out = append(out, line)
		default:
			return out
		}
	}
}

func TestChanLoggerFiltersByLevel(t *testing.T) {
	ch := make(chan string, 16)
	logger := NewChanLogger(ch, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("still noise")
	logger.Warn("kept", "symbol", "AAPL")

	lines := drain(ch)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "kept")
	assert.Contains(t, lines[0], "symbol=AAPL")
}

func TestChanLoggerZeroLevelIsInfo(t *testing.T) {
	ch := make(chan string, 16)
	var level slog.Level
	logger := NewChanLogger(ch, level)

	logger.Debug("dropped")
	logger.Info("kept")

	lines := drain(ch)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "kept")
}

func TestChanWriterSplitsLines(t *testing.T) {
	ch := make(chan string, 16)
	w := &ChanWriter{Ch: ch}

	_, err := w.Write([]byte("first\nsec"))
	require.NoError(t, err)
	_, err = w.Write([]byte("ond\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, drain(ch))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
