package liquid

// Outcome describes what applying a transition did.
type Outcome uint8

const (
	// OutcomeStale means the transition no longer matched the cells and was dropped.
	OutcomeStale Outcome = iota
	// OutcomeTransferred means one unit moved from source to target.
	OutcomeTransferred
	// OutcomeEvaporated means the source's last unit was destroyed in transit.
	OutcomeEvaporated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeTransferred:
		return "transferred"
	case OutcomeEvaporated:
		return "evaporated"
	}
	return "unknown"
}

// Applier commits transitions to cell state and re-activates the cells they touch.
type Applier struct {
	grid   Grid
	rng    Random
	active *ActiveSet

	evaporation float64
	maxPerCell  int
}

// NewApplier builds an applier writing to grid and scheduling into active.
func NewApplier(grid Grid, rng Random, active *ActiveSet, params Params) *Applier {
	a := &Applier{grid: grid, rng: rng, active: active}
	a.setParams(params)
	return a
}

func (a *Applier) setParams(p Params) {
	a.evaporation = p.EvaporationChance
	a.maxPerCell = p.MaxPerCell
}

// Apply commits t against the current cell state.
func (a *Applier) Apply(t Transition) Outcome {
	sourceTile, ok := flowTile(a.grid, t.Source)
	if !ok {
		return OutcomeStale
	}
	source := sourceTile.Liquid()
	if source == nil {
		return OutcomeStale
	}
	targetTile, ok := flowTile(a.grid, t.Target)
	if !ok {
		return OutcomeStale
	}
	level := amountOf(targetTile)
	if source.Amount <= level || level >= a.maxPerCell {
		return OutcomeStale
	}

	source.decrement(t.Direction)
	a.activateAround(t.Source)

	outcome := OutcomeTransferred
	if source.Amount == 0 && float64(a.rng.Float32()) < a.evaporation {
		outcome = OutcomeEvaporated
	} else {
		target := targetTile.EnsureLiquid()
		target.increment(t.Direction)
		target.Material = source.Material
		a.activateAround(t.Target)
	}

	if source.Amount == 0 {
		source.Material = MaterialNone
	}
	return outcome
}

func (a *Applier) activateAround(c Coord) {
	a.active.Activate(c)
	for _, dir := range CardinalDirections {
		n := c.Step(dir)
		if _, ok := flowTile(a.grid, n); ok {
			a.active.Activate(n)
		}
	}
}
