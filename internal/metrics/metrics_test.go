package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquid-ca/internal/sims/liquid"
)

func TestCollectorObservesTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveTick(liquid.TickStats{Tick: 1, Next: 4, Promoted: true, Injected: 2})
	c.ObserveTick(liquid.TickStats{Tick: 2, Current: 4, Next: 1, Evaluated: 4, Transferred: 3, Evaporated: 1, Stale: 2})

	assert.Equal(t, 4.0, testutil.ToFloat64(c.activeCurrent))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeNext))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.promotions))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.evaluated))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.injected))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.transitions.WithLabelValues("transferred")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("evaporated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.transitions.WithLabelValues("stale")))
}

func TestCollectorExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.ObserveTick(liquid.TickStats{Current: 2, Next: 3})

	expected := `
# HELP liquid_active_current Cells left in the current active set when the tick began.
# TYPE liquid_active_current gauge
liquid_active_current 2
# HELP liquid_active_next Cells waiting in the next active set when the tick began.
# TYPE liquid_active_next gauge
liquid_active_next 3
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected), "liquid_active_current", "liquid_active_next")
	assert.NoError(t, err)
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestCollectorWithoutRegistry(t *testing.T) {
	c, err := NewCollector(nil)
	require.NoError(t, err)
	c.ObserveTick(liquid.TickStats{Evaluated: 5})
	assert.Equal(t, 5.0, testutil.ToFloat64(c.evaluated))
}

func TestCollectorAsDiagnostics(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	w := liquid.New(3, 1)
	w.SetDiagnostics(c)
	w.Step()
	w.Step()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticks))
}
