package analyzer

import (
	"sync"
	"time"
)

// sweepGuard is the single sweep-in-flight lock shared by the scheduled and
// manual triggers. Acquisition carries a TTL so a crashed run can never
// wedge future sweeps, and returns a generation token so a run that outlives
// its TTL cannot release the guard out from under its successor.
type sweepGuard struct {
	mu        sync.Mutex
	heldUntil time.Time
	gen       uint64
}

// tryAcquire takes the guard unless it is held and the TTL has not lapsed.
// The returned token is valid only while this acquisition still owns the
// guard.
func (g *sweepGuard) tryAcquire(now time.Time, ttl time.Duration) (uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Before(g.heldUntil) {
		return 0, false
	}
	g.gen++
	g.heldUntil = now.Add(ttl)
	return g.gen, true
}

// release frees the guard. A stale token — the holder's TTL lapsed and a
// newer sweep took over — is a no-op.
func (g *sweepGuard) release(token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.gen != token {
		return
	}
	g.heldUntil = time.Time{}
}
