package liquid

import (
	"context"
	"fmt"
)

// EventKind tags the events delivered to the gateway.
type EventKind uint8

const (
	// EventAddLiquid adds one unit of liquid at the event target.
	EventAddLiquid EventKind = iota + 1
)

func (k EventKind) String() string {
	if k == EventAddLiquid {
		return "add-liquid"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is an asynchronous request to change the grid.
type Event struct {
	Kind   EventKind
	Target Coord
}

// Gateway queues injection events from any goroutine and applies them on the
// tick goroutine when Drain is called.
type Gateway struct {
	events chan Event

	grid       Grid
	active     *ActiveSet
	material   Material
	maxPerCell int
}

// NewGateway returns a gateway whose queue holds up to capacity events.
func NewGateway(grid Grid, active *ActiveSet, capacity int, params Params) *Gateway {
	if capacity <= 0 {
		capacity = DefaultEventQueueSize
	}
	return &Gateway{
		events:     make(chan Event, capacity),
		grid:       grid,
		active:     active,
		material:   MaterialWater,
		maxPerCell: params.MaxPerCell,
	}
}

// Publish queues ev, blocking until there is room or ctx is done.
func (g *Gateway) Publish(ctx context.Context, ev Event) error {
	select {
	case g.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish queues ev if there is room and reports whether it did.
func (g *Gateway) TryPublish(ev Event) bool {
	select {
	case g.events <- ev:
		return true
	default:
		return false
	}
}

// Pending reports how many events wait for the next drain.
func (g *Gateway) Pending() int { return len(g.events) }

// Drain handles the events queued when it was called. Events published while
// draining wait for the next call. It returns the number of events handled and
// how many of them added liquid.
func (g *Gateway) Drain() (handled, injected int) {
	n := len(g.events)
	for i := 0; i < n; i++ {
		ev := <-g.events
		handled++
		if g.handle(ev) {
			injected++
		}
	}
	return handled, injected
}

// Discard drops every queued event.
func (g *Gateway) Discard() int {
	dropped := 0
	for {
		select {
		case <-g.events:
			dropped++
		default:
			return dropped
		}
	}
}

func (g *Gateway) handle(ev Event) bool {
	switch ev.Kind {
	case EventAddLiquid:
		return g.inject(ev.Target)
	default:
		panic(fmt.Sprintf("liquid: gateway received unexpected %v for %v", ev.Kind, ev.Target))
	}
}

// inject adds a unit at c when it has room. A flow-capable target is always
// re-activated so a full cell still gets evaluated for outflow.
func (g *Gateway) inject(c Coord) bool {
	tile, ok := flowTile(g.grid, c)
	if !ok {
		return false
	}
	state := tile.EnsureLiquid()
	added := false
	if state.Amount < g.maxPerCell {
		state.Amount++
		state.Material = g.material
		added = true
	}
	g.active.Activate(c)
	return added
}
