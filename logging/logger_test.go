package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"howlongtobeat/models"
)

func TestNewLogger_DebugOff(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(models.DefaultSettings(), &buf)
	require.NoError(t, err)

	logger.Debug("discovery step")
	logger.Info("request url")
	require.NoError(t, logger.Sync())

	assert.Empty(t, buf.String())
}

func TestNewLogger_DebugOn(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Debug = true

	var buf bytes.Buffer
	logger, err := newLogger(settings, &buf)
	require.NoError(t, err)

	logger.Debug("discovery step")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "discovery step")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewLogger_WarningsAlwaysWritten(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(nil, &buf)
	require.NoError(t, err)

	logger.Warn("something odd")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "something odd")
}

func TestNewLogger_FileOutput(t *testing.T) {
	settings := models.DefaultSettings()
	settings.Debug = true
	settings.LogFile = filepath.Join(t.TempDir(), "logs", "client.log")

	var buf bytes.Buffer
	logger, err := newLogger(settings, &buf)
	require.NoError(t, err)

	logger.Debug("to file")
	_ = logger.Sync()

	data, err := os.ReadFile(settings.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}
