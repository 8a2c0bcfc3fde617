package liquid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rng "liquid-ca/pkg/core"
)

type recorder struct{ ticks []TickStats }

func (r *recorder) ObserveTick(s TickStats) { r.ticks = append(r.ticks, s) }

func newTestProcessor(w, h int, seed int64) (*TileGrid, *Processor) {
	grid := NewTileGrid(w, h)
	return grid, NewProcessor(grid, rng.NewRNG(seed), testParams())
}

func TestUpdatePromotesBeforeEvaluating(t *testing.T) {
	grid, p := newTestProcessor(2, 1, 1)
	grid.SetLiquid(Coord{X: 0, Y: 0}, 4, MaterialWater)
	require.True(t, p.Activate(Coord{X: 0, Y: 0}))

	first := p.Update(time.Second)
	assert.True(t, first.Promoted)
	assert.Zero(t, first.Evaluated)
	assert.Zero(t, first.Transitions)
	assert.Equal(t, 4, amountAt(grid, Coord{X: 0, Y: 0}))

	second := p.Update(time.Second)
	assert.False(t, second.Promoted)
	assert.Equal(t, 1, second.Evaluated)
	assert.Equal(t, 2, second.Transitions)
	assert.Equal(t, 2, second.Transferred)
	assert.Equal(t, 2, amountAt(grid, Coord{X: 0, Y: 0}))
	assert.Equal(t, 2, amountAt(grid, Coord{X: 1, Y: 0}))
}

func TestActivateRejectsRockAndOutOfBounds(t *testing.T) {
	grid, p := newTestProcessor(2, 1, 1)
	grid.SetTerrain(Coord{X: 1, Y: 0}, TerrainRock)

	assert.False(t, p.Activate(Coord{X: 1, Y: 0}))
	assert.False(t, p.Activate(Coord{X: 5, Y: 5}))
	assert.True(t, p.Activate(Coord{X: 0, Y: 0}))
}

func TestUpdateSettlesRow(t *testing.T) {
	grid, p := newTestProcessor(3, 1, 7)
	grid.SetLiquid(Coord{X: 0, Y: 0}, 6, MaterialWater)
	p.Activate(Coord{X: 0, Y: 0})

	active := p.ActiveSet()
	for i := 0; i < 1000 && active.Len()+active.NextLen() > 0; i++ {
		p.Update(time.Second)
		requireCellInvariants(t, grid, DefaultMaxPerCell)
		require.Equal(t, 6, grid.TotalLiquid())
	}

	assert.Zero(t, active.Len()+active.NextLen(), "flow should go quiescent")
	for x := 0; x < 3; x++ {
		assert.Equal(t, 2, amountAt(grid, Coord{X: x, Y: 0}), "cell %d", x)
	}
}

func TestUpdateRespectsBudget(t *testing.T) {
	grid, p := newTestProcessor(8, 1, 1)
	for x := 0; x < 8; x++ {
		grid.SetLiquid(Coord{X: x, Y: 0}, 1, MaterialWater)
		p.Activate(Coord{X: x, Y: 0})
	}
	p.Update(0)

	stats := p.Update(3 * time.Millisecond)
	assert.Equal(t, 8, stats.Current)
	assert.Equal(t, 3, stats.Budget)
	assert.Equal(t, 3, stats.Evaluated)
	assert.Equal(t, 5, p.ActiveSet().Len())

	stats = p.Update(0)
	assert.Equal(t, 1, stats.Evaluated)
}

func TestInjectionLandsBeforeTheTick(t *testing.T) {
	grid, p := newTestProcessor(2, 1, 1)
	require.True(t, p.Gateway().TryPublish(Event{Kind: EventAddLiquid, Target: Coord{X: 0, Y: 0}}))

	first := p.Update(time.Second)
	assert.Equal(t, 1, first.Events)
	assert.Equal(t, 1, first.Injected)
	assert.Equal(t, 1, first.Next)
	assert.True(t, first.Promoted)
	assert.Equal(t, 1, amountAt(grid, Coord{X: 0, Y: 0}))

	second := p.Update(time.Second)
	assert.Equal(t, 1, second.Evaluated)
	assert.Equal(t, 1, second.Transferred)
	assert.Zero(t, amountAt(grid, Coord{X: 0, Y: 0}))
	assert.Equal(t, 1, amountAt(grid, Coord{X: 1, Y: 0}))

	s, ok := grid.LiquidAt(Coord{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, MaterialNone, s.Material)
	assert.Equal(t, East, s.Flow)
}

func TestProcessorReset(t *testing.T) {
	_, p := newTestProcessor(3, 3, 1)
	p.Activate(Coord{X: 1, Y: 1})
	p.Update(0)
	p.Activate(Coord{X: 2, Y: 2})
	p.Gateway().TryPublish(Event{Kind: EventAddLiquid, Target: Coord{}})

	p.Reset()

	assert.Zero(t, p.Ticks())
	assert.Zero(t, p.ActiveSet().Len())
	assert.Zero(t, p.ActiveSet().NextLen())
	assert.Zero(t, p.Gateway().Pending())
}

func TestDiagnosticsObserveEveryTick(t *testing.T) {
	_, p := newTestProcessor(2, 2, 1)
	a, b := &recorder{}, &recorder{}
	p.SetDiagnostics(MultiDiagnostics(nil, a, b))

	p.Update(0)
	p.Update(0)

	require.Len(t, a.ticks, 2)
	require.Len(t, b.ticks, 2)
	assert.Equal(t, uint64(2), a.ticks[1].Tick)
	assert.Equal(t, uint64(2), p.Ticks())
}

func TestMultiDiagnosticsCollapses(t *testing.T) {
	assert.Nil(t, MultiDiagnostics())
	assert.Nil(t, MultiDiagnostics(nil, nil))

	r := &recorder{}
	assert.Same(t, r, MultiDiagnostics(nil, r))
}

func TestTickStatsLines(t *testing.T) {
	s := TickStats{Current: 12, Next: 4, Budget: 9, Transferred: 7, Evaporated: 1, Stale: 2}
	assert.Equal(t, []string{
		"Active flow tiles: 12",
		"Next active flow tiles: 4",
		"Updating this frame: 9",
		"Transitions: 7 moved, 1 evaporated, 2 stale",
	}, s.Lines())
}
