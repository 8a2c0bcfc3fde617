package liquid

import (
	"fmt"
	"time"
)

// TickStats reports what a single Update did.
type TickStats struct {
	Tick uint64

	// Current and Next are the active-set sizes when the tick began.
	Current int
	Next    int

	Promoted  bool
	Budget    int
	Evaluated int

	Transitions int
	Transferred int
	Evaporated  int
	Stale       int

	Events   int
	Injected int
}

// Lines renders the counters for an on-screen diagnostics panel.
func (s TickStats) Lines() []string {
	return []string{
		fmt.Sprintf("Active flow tiles: %d", s.Current),
		fmt.Sprintf("Next active flow tiles: %d", s.Next),
		fmt.Sprintf("Updating this frame: %d", s.Budget),
		fmt.Sprintf("Transitions: %d moved, %d evaporated, %d stale", s.Transferred, s.Evaporated, s.Stale),
	}
}

// Diagnostics receives the counters of every tick. Implementations must not
// touch the grid.
type Diagnostics interface {
	ObserveTick(TickStats)
}

type multiDiagnostics []Diagnostics

func (m multiDiagnostics) ObserveTick(s TickStats) {
	for _, d := range m {
		d.ObserveTick(s)
	}
}

// MultiDiagnostics fans tick counters out to every non-nil sink.
func MultiDiagnostics(sinks ...Diagnostics) Diagnostics {
	var out multiDiagnostics
	for _, d := range sinks {
		if d != nil {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Processor runs the liquid flow ticks over a grid.
type Processor struct {
	grid     Grid
	active   *ActiveSet
	resolver *Resolver
	applier  *Applier
	gateway  *Gateway

	pending []Transition
	diag    Diagnostics
	tick    uint64
}

// NewProcessor wires the scheduler, resolver, applier and gateway around grid.
func NewProcessor(grid Grid, rng Random, params Params) *Processor {
	active := NewActiveSet(params.EvaluationRate)
	return &Processor{
		grid:     grid,
		active:   active,
		resolver: NewResolver(grid, rng),
		applier:  NewApplier(grid, rng, active, params),
		gateway:  NewGateway(grid, active, params.EventQueueSize, params),
	}
}

// SetDiagnostics installs the sink receiving per-tick counters. Nil disables it.
func (p *Processor) SetDiagnostics(d Diagnostics) { p.diag = d }

// SetParams applies tunables that may change between ticks. The event queue
// size is fixed at construction.
func (p *Processor) SetParams(params Params) {
	p.active.SetRate(params.EvaluationRate)
	p.applier.setParams(params)
	p.gateway.maxPerCell = params.MaxPerCell
}

// Gateway exposes the injection queue.
func (p *Processor) Gateway() *Gateway { return p.gateway }

// ActiveSet exposes the scheduler.
func (p *Processor) ActiveSet() *ActiveSet { return p.active }

// Activate schedules c for the next tick if it can carry liquid.
func (p *Processor) Activate(c Coord) bool {
	if _, ok := flowTile(p.grid, c); !ok {
		return false
	}
	return p.active.Activate(c)
}

// Ticks reports how many updates have run since the last reset.
func (p *Processor) Ticks() uint64 { return p.tick }

// Reset forgets all scheduled work and queued events.
func (p *Processor) Reset() {
	p.active.Clear()
	p.gateway.Discard()
	p.pending = p.pending[:0]
	p.tick = 0
}

// Update runs one tick covering elapsed. Queued events are applied first, then
// the budgeted cells are resolved into one batch, and only then is the batch
// committed in order.
func (p *Processor) Update(elapsed time.Duration) TickStats {
	p.tick++
	stats := TickStats{Tick: p.tick}
	stats.Events, stats.Injected = p.gateway.Drain()
	stats.Current = p.active.Len()
	stats.Next = p.active.NextLen()

	budget := p.active.BeginTick(elapsed)
	stats.Promoted = stats.Current == 0
	stats.Budget = budget

	p.pending = p.pending[:0]
	for i := 0; i < budget; i++ {
		c, ok := p.active.DrainOne()
		if !ok {
			break
		}
		stats.Evaluated++
		p.pending = p.resolver.Resolve(c, p.pending)
	}

	stats.Transitions = len(p.pending)
	for _, t := range p.pending {
		switch p.applier.Apply(t) {
		case OutcomeTransferred:
			stats.Transferred++
		case OutcomeEvaporated:
			stats.Evaporated++
		default:
			stats.Stale++
		}
	}
	p.pending = p.pending[:0]

	if p.diag != nil {
		p.diag.ObserveTick(stats)
	}
	return stats
}
