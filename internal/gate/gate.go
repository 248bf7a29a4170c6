// Package gate implements the seat gate: a counting admission primitive that
// is re-armed with a fresh number of permits every round and only supports
// non-blocking claims.
package gate

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/nicholasngai/chairs/internal/fault"
)

type round struct {
	permits *semaphore.Weighted
	armed   int
	granted atomic.Int64
}

// Gate hands out at most Armed() seats per round. The zero value is a
// disarmed gate that denies every claim.
type Gate struct {
	cur atomic.Pointer[round]
}

// New returns a disarmed gate.
func New() *Gate {
	return &Gate{}
}

// Arm resets the available permits to n. It must only be called by the
// coordinator while the round barrier is closed.
func (g *Gate) Arm(n int) error {
	if n < 0 {
		return fmt.Errorf("arm gate with %d permits: %w", n, fault.ErrContractViolation)
	}
	g.cur.Store(&round{
		permits: semaphore.NewWeighted(int64(n)),
		armed:   n,
	})
	return nil
}

// Disarm drops the current round. Later claims are denied until the next Arm.
func (g *Gate) Disarm() {
	g.cur.Store(nil)
}

// TryClaim attempts to take one permit without blocking. On success it
// returns the 1-based seat number, assigned in grant order.
func (g *Gate) TryClaim() (int, bool) {
	r := g.cur.Load()
	if r == nil {
		return 0, false
	}
	// Permits are never released within a round, so the count only goes down.
	if !r.permits.TryAcquire(1) {
		return 0, false
	}
	return int(r.granted.Add(1)), true
}

// Armed returns the permit count the current round was armed with.
func (g *Gate) Armed() int {
	if r := g.cur.Load(); r != nil {
		return r.armed
	}
	return 0
}

// Granted returns the number of successful claims in the current round.
func (g *Gate) Granted() int {
	if r := g.cur.Load(); r != nil {
		return int(r.granted.Load())
	}
	return 0
}
