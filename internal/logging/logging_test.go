package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursedeck/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursedeck.log")

	log, closer, err := New(config.LogSettings{Level: "warn", File: path})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("component", "test").Msg("visible")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"message":"visible"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, closer, err := New(config.LogSettings{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")})

	assert.Error(t, err)
	assert.NoError(t, closer.Close())
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.InfoLevel)

	log.Debug().Msg("debug")
	log.Info().Msg("info")

	assert.NotContains(t, buf.String(), `"debug"`)
	assert.Contains(t, buf.String(), `"message":"info"`)
}
