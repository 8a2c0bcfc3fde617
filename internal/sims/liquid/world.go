package liquid

import (
	"image/color"

	"github.com/google/uuid"

	"liquid-ca/internal/core"
	rng "liquid-ca/pkg/core"
)

// World is the liquid flow simulation over a rock-and-open tile grid, fed by
// springs and by Inject calls.
type World struct {
	cfg Config

	w, h int

	grid    *TileGrid
	rng     *rng.RNG
	proc    *Processor
	clock   *core.FixedStep
	springs []Coord

	display []uint8
	palette []color.RGBA

	stats   TickStats
	steps   uint64
	paused  bool
	session uuid.UUID
}

// New returns a liquid world with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a world configured from the provided options. The
// world is empty until Reset is called.
func NewWithConfig(cfg Config) *World {
	if cfg.Width <= 0 {
		cfg.Width = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
	}
	grid := NewTileGrid(cfg.Width, cfg.Height)
	r := rng.NewRNG(cfg.Seed)
	w := &World{
		cfg:     cfg,
		w:       cfg.Width,
		h:       cfg.Height,
		grid:    grid,
		rng:     r,
		proc:    NewProcessor(grid, r, cfg.Params),
		clock:   core.NewFixedStep(cfg.TPS),
		display: make([]uint8, cfg.Width*cfg.Height),
		session: uuid.New(),
	}
	w.palette = buildPalette(cfg.Params.MaxPerCell)
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "liquid" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Grid exposes the tile grid.
func (w *World) Grid() *TileGrid { return w.grid }

// Processor exposes the flow engine.
func (w *World) Processor() *Processor { return w.proc }

// Springs lists the cells that emit liquid.
func (w *World) Springs() []Coord { return append([]Coord(nil), w.springs...) }

// Session identifies the current run; it changes on every Reset.
func (w *World) Session() uuid.UUID { return w.session }

// Steps reports how many unpaused steps ran since the last reset.
func (w *World) Steps() uint64 { return w.steps }

// Stats returns the counters of the most recent tick.
func (w *World) Stats() TickStats { return w.stats }

// TotalLiquid sums the liquid held by the grid.
func (w *World) TotalLiquid() int { return w.grid.TotalLiquid() }

// SetDiagnostics forwards tick counters to d.
func (w *World) SetDiagnostics(d Diagnostics) { w.proc.SetDiagnostics(d) }

// SetPaused suspends or resumes stepping. Injections stay queued while paused.
func (w *World) SetPaused(paused bool) { w.paused = paused }

// Paused reports whether stepping is suspended.
func (w *World) Paused() bool { return w.paused }

// Reset rebuilds terrain and springs using deterministic randomness.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Reseed(effective)
	w.grid.Clear()
	w.proc.Reset()
	w.springs = w.springs[:0]
	w.stats = TickStats{}
	w.steps = 0
	w.session = uuid.New()

	w.sprinkleRock()
	w.placeSprings()
	w.rebuildDisplay()
}

// Step advances the world by one fixed tick.
func (w *World) Step() {
	if w.paused {
		return
	}
	w.steps++
	if interval := uint64(w.cfg.Params.SpringInterval); interval > 0 && w.steps%interval == 0 {
		for _, s := range w.springs {
			w.proc.Gateway().TryPublish(Event{Kind: EventAddLiquid, Target: s})
		}
	}
	w.stats = w.proc.Update(w.clock.Step())
	w.rebuildDisplay()
}

// Inject queues one unit of liquid at (x, y). It reports false when the
// coordinates are outside the grid or the queue is full.
func (w *World) Inject(x, y int) bool {
	if x < 0 || y < 0 || x >= w.w || y >= w.h {
		return false
	}
	return w.proc.Gateway().TryPublish(Event{Kind: EventAddLiquid, Target: Coord{X: x, Y: y}})
}

// ActiveCoords copies the scheduler's current and next sets.
func (w *World) ActiveCoords() (current, next []Coord) {
	return w.proc.ActiveSet().Snapshot()
}

// ActiveMask marks cells in the current set with 1 and cells waiting in the
// next set with 0.5.
func (w *World) ActiveMask() []float32 {
	mask := make([]float32, w.w*w.h)
	current, next := w.ActiveCoords()
	for _, c := range next {
		mask[c.Y*w.w+c.X] = 0.5
	}
	for _, c := range current {
		mask[c.Y*w.w+c.X] = 1
	}
	return mask
}

// FlowVectorAt returns the last flow direction at the cell containing (x, y),
// scaled by how full the cell is.
func (w *World) FlowVectorAt(x, y float64) (float64, float64) {
	c := Coord{X: int(x), Y: int(y)}
	s, ok := w.grid.LiquidAt(c)
	if !ok || s.Amount == 0 {
		return 0, 0
	}
	dx, dy := s.Flow.Offset()
	scale := float64(s.Amount) / float64(w.cfg.Params.MaxPerCell)
	return float64(dx) * scale, float64(dy) * scale
}

func (w *World) sprinkleRock() {
	if w.cfg.Params.RockChance <= 0 {
		return
	}
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			if w.rng.Float64() < w.cfg.Params.RockChance {
				w.grid.SetTerrain(Coord{X: x, Y: y}, TerrainRock)
			}
		}
	}
}

func (w *World) placeSprings() {
	const attempts = 32
	for i := 0; i < w.cfg.Params.SpringCount; i++ {
		for try := 0; try < attempts; try++ {
			c := Coord{X: w.rng.IntN(w.w), Y: w.rng.IntN(w.h)}
			if w.grid.Terrain(c) == TerrainOpen {
				w.springs = append(w.springs, c)
				break
			}
		}
	}
}

func init() {
	core.Register("liquid", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
