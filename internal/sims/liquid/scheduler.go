package liquid

import (
	"math"
	"time"
)

// ActiveSet tracks the cells awaiting evaluation. Cells drained this tick live
// in current; activations land in next and only reach current once current
// has been fully drained.
type ActiveSet struct {
	rate float64

	current []Coord
	head    int
	next    []Coord
	queued  map[Coord]struct{}
}

// NewActiveSet returns an empty set evaluating rate cells per second.
func NewActiveSet(rate float64) *ActiveSet {
	a := &ActiveSet{queued: make(map[Coord]struct{})}
	a.SetRate(rate)
	return a
}

// SetRate changes the target evaluation throughput in cells per second.
func (a *ActiveSet) SetRate(rate float64) {
	if rate <= 0 {
		rate = DefaultEvaluationRate
	}
	a.rate = rate
}

// Rate reports the evaluation throughput in cells per second.
func (a *ActiveSet) Rate() float64 { return a.rate }

// Activate schedules c for the following tick. It reports false when c was
// already scheduled.
func (a *ActiveSet) Activate(c Coord) bool {
	if _, ok := a.queued[c]; ok {
		return false
	}
	a.queued[c] = struct{}{}
	a.next = append(a.next, c)
	return true
}

// BeginTick returns how many cells to drain for a tick covering elapsed. When
// current is empty the next set is promoted instead and nothing is drained.
func (a *ActiveSet) BeginTick(elapsed time.Duration) int {
	n := a.Len()
	if n == 0 {
		a.promote()
		return 0
	}
	budget := int(math.Round(a.rate * elapsed.Seconds()))
	if budget < 1 {
		budget = 1
	}
	if budget > n {
		budget = n
	}
	return budget
}

// DrainOne pops the oldest cell of the current set.
func (a *ActiveSet) DrainOne() (Coord, bool) {
	if a.head >= len(a.current) {
		return Coord{}, false
	}
	c := a.current[a.head]
	a.head++
	if a.head == len(a.current) {
		a.current = a.current[:0]
		a.head = 0
	}
	return c, true
}

// Len is the number of cells left in the current set.
func (a *ActiveSet) Len() int { return len(a.current) - a.head }

// NextLen is the number of cells scheduled for a later tick.
func (a *ActiveSet) NextLen() int { return len(a.next) }

// Scheduled reports whether c is waiting in the next set.
func (a *ActiveSet) Scheduled(c Coord) bool {
	_, ok := a.queued[c]
	return ok
}

// Snapshot copies both sets for inspection.
func (a *ActiveSet) Snapshot() (current, next []Coord) {
	current = append([]Coord(nil), a.current[a.head:]...)
	next = append([]Coord(nil), a.next...)
	return current, next
}

// Clear drops every scheduled cell.
func (a *ActiveSet) Clear() {
	a.current = a.current[:0]
	a.head = 0
	a.next = a.next[:0]
	clear(a.queued)
}

func (a *ActiveSet) promote() {
	a.current, a.next = a.next, a.current[:0]
	a.head = 0
	clear(a.queued)
}
