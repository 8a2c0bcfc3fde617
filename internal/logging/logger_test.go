package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquid-ca/internal/sims/liquid"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestErrorKeyIsShortened(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, slog.LevelInfo).Error("snapshot failed", "error", errors.New("disk full"))

	assert.Contains(t, buf.String(), `err="disk full"`)
	assert.NotContains(t, buf.String(), "error=")
}

func TestDiagnosticsSinkSamplesTicks(t *testing.T) {
	var buf bytes.Buffer
	sink := NewDiagnosticsSink(NewWriter(&buf, slog.LevelDebug), 3)

	for tick := uint64(1); tick <= 6; tick++ {
		sink.ObserveTick(liquid.TickStats{Tick: tick, Evaluated: int(tick)})
	}

	out := buf.String()
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("flow tick")))
	assert.Contains(t, out, "tick=3")
	assert.Contains(t, out, "tick=6")
	assert.NotContains(t, out, "tick=4")
}

func TestDiagnosticsSinkRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	sink := NewDiagnosticsSink(NewWriter(&buf, slog.LevelInfo), 1)
	sink.ObserveTick(liquid.TickStats{Tick: 1})
	assert.Empty(t, buf.String())

	var nilSink *DiagnosticsSink
	assert.NotPanics(t, func() { nilSink.ObserveTick(liquid.TickStats{}) })
}
