package liquid

// Random is the shared random source of a simulation session.
type Random interface {
	Shuffle(n int, swap func(i, j int))
	Float32() float32
}

// Transition is a proposed one-unit move from Source to the adjacent Target.
// It carries no cell state; the applier re-reads both cells.
type Transition struct {
	Source    Coord
	Target    Coord
	Direction Direction
}

// Resolver picks at most one destination for a source cell per evaluation.
type Resolver struct {
	grid Grid
	rng  Random
	dirs [4]Direction
}

// NewResolver builds a resolver reading grid and shuffling with rng.
func NewResolver(grid Grid, rng Random) *Resolver {
	return &Resolver{grid: grid, rng: rng}
}

// Resolve appends the transitions for the cell at c to out. Neighbours are
// tried in a fresh random order; the first one holding strictly less liquid
// receives one unit, or two when it holds less than half of the source.
func (r *Resolver) Resolve(c Coord, out []Transition) []Transition {
	tile, ok := r.grid.Tile(c)
	if !ok || tile == nil {
		return out
	}
	source := tile.Liquid()
	if source.Empty() {
		return out
	}

	r.dirs = CardinalDirections
	r.rng.Shuffle(len(r.dirs), func(i, j int) {
		r.dirs[i], r.dirs[j] = r.dirs[j], r.dirs[i]
	})

	for _, dir := range r.dirs {
		target := c.Step(dir)
		neighbour, ok := flowTile(r.grid, target)
		if !ok {
			continue
		}
		level := amountOf(neighbour)
		if level >= source.Amount {
			continue
		}
		t := Transition{Source: c, Target: target, Direction: dir}
		out = append(out, t)
		if level < source.Amount/2 {
			out = append(out, t)
		}
		break
	}
	return out
}
