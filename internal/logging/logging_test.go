package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"Warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var console, file bytes.Buffer
	log := New(&console, &file, zerolog.WarnLevel)

	log.Info().Msg("hidden")
	log.Warn().Int("step", 3).Msg("shown")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")
	assert.Contains(t, file.String(), "step=3")
	assert.NotContains(t, file.String(), "\x1b[", "file output must not carry colors")
}

func TestNewWithoutFile(t *testing.T) {
	var console bytes.Buffer
	log := New(&console, nil, zerolog.DebugLevel)

	log.Debug().Str("run", "abc").Msg("saved")
	assert.Contains(t, console.String(), "saved")
}
