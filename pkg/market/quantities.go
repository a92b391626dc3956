// package market holds the state of a single prediction market: the
// outstanding shares per outcome, and the book that prices and commits
// bets against them.
package market

import (
	"fmt"
	"sync"
)

// Quantities tracks the net shares outstanding for every outcome of a
// market. The outcome set is fixed at construction; only the counts
// change, and only through Apply. All methods are safe for concurrent
// use, and every Apply is atomic: no Snapshot ever observes a count
// mid-update.
type Quantities struct {
	mu       sync.RWMutex
	outcomes []string
	index    map[string]int
	shares   []int64
}

// NewQuantities creates a zeroed quantity vector over the given
// outcomes. At least two distinct outcomes are required.
func NewQuantities(outcomes []string) (*Quantities, error) {
	if len(outcomes) < 2 {
		return nil, fmt.Errorf("need at least 2 outcomes, got %d", len(outcomes))
	}
	index := make(map[string]int, len(outcomes))
	for i, o := range outcomes {
		if o == "" {
			return nil, fmt.Errorf("outcome %d is empty", i)
		}
		if _, dup := index[o]; dup {
			return nil, fmt.Errorf("duplicate outcome %q", o)
		}
		index[o] = i
	}
	return &Quantities{
		outcomes: append([]string(nil), outcomes...),
		index:    index,
		shares:   make([]int64, len(outcomes)),
	}, nil
}

// Outcomes returns the market's outcome names in their fixed order.
func (q *Quantities) Outcomes() []string {
	return append([]string(nil), q.outcomes...)
}

// Index returns the position of an outcome in the vector.
func (q *Quantities) Index(outcome string) (int, bool) {
	i, ok := q.index[outcome]
	return i, ok
}

// Snapshot returns a copy of the current quantity vector, ordered like
// Outcomes.
func (q *Quantities) Snapshot() []int64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return append([]int64(nil), q.shares...)
}

// SnapshotMap returns the current quantities keyed by outcome name.
func (q *Quantities) SnapshotMap() map[string]int64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	m := make(map[string]int64, len(q.outcomes))
	for i, o := range q.outcomes {
		m[o] = q.shares[i]
	}
	return m
}

// Apply adds delta shares to an outcome and returns a copy of the new
// vector. Fails with ErrUnknownOutcome if the outcome is not part of
// the market; nothing changes in that case.
func (q *Quantities) Apply(outcome string, delta int64) ([]int64, error) {
	i, ok := q.index[outcome]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutcome, outcome)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shares[i] += delta
	return append([]int64(nil), q.shares...), nil
}
