package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/insight-mole/internal/config"
)

func TestInitWriterLevels(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitWriter(config.LogConfig{}, &buf)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len(), "debug lines should be dropped at info level")

	log.Info().Str("kind", "analysis").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "analysis", line["kind"])
	assert.Contains(t, line, "caller")
	assert.Contains(t, line, "time")
}

func TestInitWriterDebug(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitWriter(config.LogConfig{Debug: true}, &buf)

	log.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
