package liquid

import "liquid-ca/internal/core"

// Tile is a grid location as seen by the engine.
type Tile interface {
	// FlowCapable reports whether liquid may enter the tile.
	FlowCapable() bool
	// Liquid returns the tile's liquid state, or nil when none was created.
	Liquid() *LiquidState
	// EnsureLiquid returns the liquid state, creating it on first use.
	EnsureLiquid() *LiquidState
}

// Grid resolves coordinates to tiles. The boolean is false for coordinates
// that do not address a tile.
type Grid interface {
	Tile(c Coord) (Tile, bool)
}

func flowTile(g Grid, c Coord) (Tile, bool) {
	t, ok := g.Tile(c)
	if !ok || t == nil || !t.FlowCapable() {
		return nil, false
	}
	return t, true
}

func amountOf(t Tile) int {
	if s := t.Liquid(); s != nil {
		return s.Amount
	}
	return 0
}

// Terrain enumerates the values stored in the terrain layer.
type Terrain uint8

const (
	TerrainOpen Terrain = iota
	TerrainRock
)

// TileGrid is a bounded grid of terrain plus lazily created liquid state.
type TileGrid struct {
	terrain *core.ByteGrid
	liquid  []*LiquidState
}

// NewTileGrid allocates an all-open grid with no liquid.
func NewTileGrid(w, h int) *TileGrid {
	terrain := core.NewByteGrid(w, h)
	return &TileGrid{
		terrain: terrain,
		liquid:  make([]*LiquidState, terrain.W*terrain.H),
	}
}

// Size reports the grid dimensions.
func (g *TileGrid) Size() core.Size { return core.Size{W: g.terrain.W, H: g.terrain.H} }

// Tile implements Grid.
func (g *TileGrid) Tile(c Coord) (Tile, bool) {
	if !g.terrain.InBounds(c.X, c.Y) {
		return nil, false
	}
	return gridTile{g: g, idx: g.terrain.Index(c.X, c.Y)}, true
}

// Terrain returns the terrain at c. Out-of-bounds coordinates read as rock.
func (g *TileGrid) Terrain(c Coord) Terrain {
	if !g.terrain.InBounds(c.X, c.Y) {
		return TerrainRock
	}
	return Terrain(g.terrain.At(c.X, c.Y))
}

// SetTerrain changes the terrain at c. Turning a cell into rock discards its
// liquid state, since flow-incapable cells carry none.
func (g *TileGrid) SetTerrain(c Coord, t Terrain) bool {
	if !g.terrain.Set(c.X, c.Y, uint8(t)) {
		return false
	}
	if t != TerrainOpen {
		g.liquid[g.terrain.Index(c.X, c.Y)] = nil
	}
	return true
}

// LiquidAt returns a copy of the liquid state at c.
func (g *TileGrid) LiquidAt(c Coord) (LiquidState, bool) {
	if !g.terrain.InBounds(c.X, c.Y) {
		return LiquidState{}, false
	}
	s := g.liquid[g.terrain.Index(c.X, c.Y)]
	if s == nil {
		return LiquidState{}, false
	}
	return *s, true
}

// SetLiquid overwrites the liquid at an open cell. Amounts <= 0 clear the
// material.
func (g *TileGrid) SetLiquid(c Coord, amount int, m Material) bool {
	if g.Terrain(c) != TerrainOpen {
		return false
	}
	t, _ := g.Tile(c)
	s := t.EnsureLiquid()
	if amount <= 0 {
		s.Amount = 0
		s.Material = MaterialNone
		return true
	}
	s.Amount = amount
	s.Material = m
	return true
}

// TotalLiquid sums the liquid held by every cell.
func (g *TileGrid) TotalLiquid() int {
	total := 0
	for _, s := range g.liquid {
		if s != nil {
			total += s.Amount
		}
	}
	return total
}

// ClampAmounts lowers every amount above limit to limit.
func (g *TileGrid) ClampAmounts(limit int) int {
	clamped := 0
	for _, s := range g.liquid {
		if s != nil && s.Amount > limit {
			s.Amount = limit
			clamped++
		}
	}
	return clamped
}

// RockCount reports how many cells are flow-incapable rock.
func (g *TileGrid) RockCount() int { return g.terrain.Count(uint8(TerrainRock)) }

// WetCells lists the coordinates holding liquid in row-major order.
func (g *TileGrid) WetCells() []Coord {
	var out []Coord
	w := g.terrain.W
	for i, s := range g.liquid {
		if s != nil && s.Amount > 0 {
			out = append(out, Coord{X: i % w, Y: i / w})
		}
	}
	return out
}

// Clear resets terrain to open and drops all liquid state.
func (g *TileGrid) Clear() {
	g.terrain.Clear()
	clear(g.liquid)
}

type gridTile struct {
	g   *TileGrid
	idx int
}

func (t gridTile) FlowCapable() bool {
	return Terrain(t.g.terrain.Cells()[t.idx]) == TerrainOpen
}

func (t gridTile) Liquid() *LiquidState { return t.g.liquid[t.idx] }

func (t gridTile) EnsureLiquid() *LiquidState {
	s := t.g.liquid[t.idx]
	if s == nil {
		s = &LiquidState{}
		t.g.liquid[t.idx] = s
	}
	return s
}
