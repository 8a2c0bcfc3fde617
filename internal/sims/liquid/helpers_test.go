package liquid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stubRandom keeps the canonical direction order and replays floats. Once the
// floats run out it returns 0.999 so evaporation rolls fail.
type stubRandom struct {
	floats []float32
	next   int
}

func (s *stubRandom) Shuffle(int, func(i, j int)) {}

func (s *stubRandom) Float32() float32 {
	if s.next < len(s.floats) {
		f := s.floats[s.next]
		s.next++
		return f
	}
	return 0.999
}

// reverseRandom flips the four directions to West, South, East, North.
type reverseRandom struct{ stubRandom }

func (r *reverseRandom) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

type rig struct {
	grid     *TileGrid
	active   *ActiveSet
	resolver *Resolver
	applier  *Applier
}

func newRig(w, h int, rnd Random, params Params) *rig {
	grid := NewTileGrid(w, h)
	active := NewActiveSet(params.EvaluationRate)
	return &rig{
		grid:     grid,
		active:   active,
		resolver: NewResolver(grid, rnd),
		applier:  NewApplier(grid, rnd, active, params),
	}
}

func testParams() Params {
	p := DefaultConfig().Params
	p.EvaporationChance = 0
	return p
}

func amountAt(g *TileGrid, c Coord) int {
	s, _ := g.LiquidAt(c)
	return s.Amount
}

// requireCellInvariants checks the amount range and that a material is set
// exactly when liquid is present.
func requireCellInvariants(t *testing.T, g *TileGrid, maxPerCell int) {
	t.Helper()
	size := g.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			c := Coord{X: x, Y: y}
			s, ok := g.LiquidAt(c)
			if !ok {
				continue
			}
			require.GreaterOrEqual(t, s.Amount, 0, "cell %v", c)
			require.LessOrEqual(t, s.Amount, maxPerCell, "cell %v", c)
			require.Equal(t, s.Amount == 0, s.Material == MaterialNone, "cell %v amount=%d material=%v", c, s.Amount, s.Material)
		}
	}
}
