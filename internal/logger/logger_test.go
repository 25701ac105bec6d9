package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oficina.log")
	closer, err := Setup(LogConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = Setup(DefaultConfig()) })

	l := WithComponent("ledger")
	l.Info().Str("document", "AP-2025-0001").Msg("payment recorded")
	l.Debug().Msg("hidden")

	require.NoError(t, closer.Close())
	assert.ErrorIs(t, closer.Close(), os.ErrClosed, "the log file is released by Close")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, `"component":"ledger"`)
	assert.Contains(t, contents, `"document":"AP-2025-0001"`)
	assert.NotContains(t, contents, "hidden")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup(LogConfig{Level: "loud"})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "stderr", cfg.Output)
	closer, err := Setup(cfg)
	require.NoError(t, err)
	assert.NoError(t, closer.Close(), "closing the stderr logger is a no-op")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
