// Package pool implements the argobots work-stealing deque: a single
// owner may Push, Pop, and Remove; any number of foreign workers may
// Steal. See spec.md §3-§4 for the full coordination protocol this file
// implements line for line.
package pool

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/dsugiyama/argobots/config"
	"github.com/dsugiyama/argobots/internal/xlog"
	"github.com/dsugiyama/argobots/unit"
)

// nextID hands out the PoolID every Deque stamps onto units it holds, so a
// unit's back-reference is a comparable value rather than a pointer --
// the "typed index" the spec's design notes recommend in place of the C
// source's raw back-pointer cycle.
var nextID atomic.Uint64

// Deque is a circular buffer of *unit.Unit references plus a head/tail
// index pair and the foreign lock serializing everything a thief touches.
//
// Invariants (spec.md §3), maintained by every method below:
//
//  1. T >= H at every quiescent point.
//  2. T - H <= len(array) at every quiescent point.
//  3. Only the owner goroutine increases T (Push) or decreases T (Pop).
//  4. Only a holder of mu increases H (Steal) or decreases/reinitializes
//     either index (grow, wraparound, edge-compacting Remove).
//  5. A slot outside [H, T) holds nil.
//  6. A slot inside [H, T) holds either a unit or nil (a tombstone left by
//     Remove); readers must skip tombstones.
//  7. A unit's PoolID points at this deque while resident; whoever
//     dequeues it clears that back-reference.
//
// Deque is safe for exactly one concurrent Push/Pop/Remove caller (the
// owner) plus any number of concurrent Steal callers (foreign workers).
// Calling Push, Pop, or Remove from more than one goroutine is a
// programming error this type does not defend against, per spec.md §5.
type Deque struct {
	id unit.PoolID

	mu    sync.Mutex // the "foreign lock"
	array []*unit.Unit
	mask  uint64

	head atomic.Uint64
	tail atomic.Uint64

	metrics   metrics
	metricsOn bool

	// tombstoneRetryCap bounds Pop/Steal's tombstone-skipping loop; zero
	// means unbounded (spec.md §9 open question (c)).
	tombstoneRetryCap int
}

// New creates an empty deque per cfg. A fresh deque has H=T=0 and a
// backing array of cfg.NormalizedCapacity() slots (256 by default,
// matching spec.md §3's L=256).
func New(cfg config.Config) *Deque {
	capacity := cfg.NormalizedCapacity()
	d := &Deque{
		id:                unit.PoolID(nextID.Add(1)),
		array:             make([]*unit.Unit, capacity),
		mask:              uint64(capacity - 1),
		metricsOn:         cfg.EnableMetrics,
		tombstoneRetryCap: cfg.TombstoneRetryCap,
	}
	return d
}

// ID returns the PoolID this deque stamps onto resident units.
func (d *Deque) ID() unit.PoolID {
	return d.id
}

// Push stores u at the tail. Called only by the owner. Never fails: it
// grows the backing array instead of rejecting a full deque.
func (d *Deque) Push(u *unit.Unit) {
	t := d.tail.Load()

	// Wrap guard: if tail is about to overflow its counter, collapse both
	// indices into the current ring window under the lock. (T-H) mod
	// 2^64 is preserved, so the live range doesn't change.
	if t == math.MaxUint64 {
		d.mu.Lock()
		if d.tail.Load() == math.MaxUint64 {
			h := d.head.Load()
			live := d.tail.Load() - h
			d.head.Store(h & d.mask)
			t = d.tail.Load() & d.mask
			d.tail.Store(t)
			xlog.WrapAround(uint64(d.id), int(live))
		} else {
			t = d.tail.Load()
		}
		d.mu.Unlock()
	}

	h := d.head.Load()
	// Fast path: at least two free slots (a one-slot cushion against a
	// steal that has speculatively advanced H and may back it out).
	if t < h+d.mask {
		d.array[t&d.mask] = u
		u.SetPool(d.id)
		d.tail.Store(t + 1)
		d.bump(&d.metrics.pushes)
		return
	}

	// Slow path: contend with foreign pops/steals under the lock.
	d.mu.Lock()
	defer d.mu.Unlock()

	h = d.head.Load()
	t = d.tail.Load()
	count := t - h
	if count >= d.mask {
		d.grow()
		t = d.tail.Load()
	}

	d.array[t&d.mask] = u
	u.SetPool(d.id)
	d.tail.Store(t + 1)
	d.bump(&d.metrics.pushes)
}

// grow doubles the backing array. Must be called with mu held. Stealers
// only ever touch the array under mu too, so the old array has no
// readers left the moment this returns and needs no separate reclamation.
func (d *Deque) grow() {
	h := d.head.Load()
	t := d.tail.Load()
	count := t - h

	oldMask := d.mask
	oldArray := d.array
	newArray := make([]*unit.Unit, len(oldArray)*2)
	for i := uint64(0); i < count; i++ {
		newArray[i] = oldArray[(i+h)&oldMask]
	}

	xlog.Grow(uint64(d.id), len(oldArray), len(newArray))

	d.array = newArray
	d.mask = uint64(len(newArray) - 1)
	d.head.Store(0)
	d.tail.Store(count)
	d.bump(&d.metrics.grows)
}

// Pop removes and returns the most recently pushed unit (LIFO), or nil if
// the deque is empty or a concurrent steal won the race for the last
// element. Called only by the owner.
func (d *Deque) Pop() *unit.Unit {
	retries := 0
	for {
		t := d.tail.Load()
		if d.head.Load() >= t {
			return nil
		}

		t--
		// Speculative decrement: this Swap is both the RMW that tentatively
		// claims slot t and the full fence that guarantees the head.Load()
		// below observes any steal that already completed.
		d.tail.Swap(t)

		if d.head.Load() <= t {
			// Uncontended: no steal can have touched this slot.
			idx := t & d.mask
			it := d.array[idx]
			if it == nil {
				if d.retryCapExceeded(&retries) {
					xlog.TombstoneRetryCapExceeded(uint64(d.id), "pop", d.tombstoneRetryCap)
					return nil
				}
				xlog.TombstoneRetry(uint64(d.id), "pop")
				continue
			}
			d.array[idx] = nil
			it.ClearPool()
			d.bump(&d.metrics.pops)
			return it
		}

		// Contended: 0 or 1 elements left, resolve under the lock.
		d.mu.Lock()
		if d.head.Load() <= t {
			idx := t & d.mask
			it := d.array[idx]
			if it == nil {
				d.mu.Unlock()
				if d.retryCapExceeded(&retries) {
					xlog.TombstoneRetryCapExceeded(uint64(d.id), "pop", d.tombstoneRetryCap)
					return nil
				}
				xlog.TombstoneRetry(uint64(d.id), "pop")
				continue
			}
			d.array[idx] = nil
			it.ClearPool()
			d.mu.Unlock()
			d.bump(&d.metrics.pops)
			return it
		}
		// Stealer won; restore the tail we speculatively claimed.
		d.tail.Store(t + 1)
		d.mu.Unlock()
		return nil
	}
}

// retryCapExceeded increments *retries and reports whether the deque's
// configured tombstone-retry cap has now been reached. A zero cap means
// unbounded retries (spec.md §9 open question (c)).
func (d *Deque) retryCapExceeded(retries *int) bool {
	*retries++
	return d.tombstoneRetryCap > 0 && *retries >= d.tombstoneRetryCap
}

// Steal removes and returns the least recently pushed unit (FIFO), or nil
// if the deque looks empty or loses a race. May be called concurrently by
// any number of foreign workers.
func (d *Deque) Steal() *unit.Unit {
	if d.head.Load() >= d.tail.Load() {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	retries := 0
	for {
		h := d.head.Load()
		t := d.tail.Load()
		if h >= t {
			return nil
		}

		// Speculative advance: the RMW + fence pair mirroring Pop's tail
		// decrement, so a racing owner pop and this steal agree on who
		// got the last element.
		d.head.Swap(h + 1)
		t = d.tail.Load()

		if h < t {
			idx := h & d.mask
			it := d.array[idx]
			if it == nil {
				if d.retryCapExceeded(&retries) {
					xlog.TombstoneRetryCapExceeded(uint64(d.id), "steal", d.tombstoneRetryCap)
					return nil
				}
				xlog.TombstoneRetry(uint64(d.id), "steal")
				continue
			}
			d.array[idx] = nil
			it.ClearPool()
			d.bump(&d.metrics.steals)
			return it
		}

		d.head.Store(h)
		return nil
	}
}

// Remove deletes u from anywhere in the live range and reports whether it
// was found. Called only by the owner. O(1) for a just-pushed item,
// O(live count) in the worst case.
func (d *Deque) Remove(u *unit.Unit) bool {
	t := d.tail.Load()
	h := d.head.Load()
	if h >= t {
		return false
	}

	// Tail fast path: delegate to Pop, which already handles the
	// steal race for the last element.
	if d.array[(t-1)&d.mask] == u {
		return d.Pop() == u
	}

	if t-1 == h {
		// Only one live element and it didn't match the tail check above.
		return false
	}

	for i := t - 2; ; i-- {
		if d.array[i&d.mask] == u {
			return d.removeAt(i, u)
		}
		if i == h {
			break
		}
	}
	return false
}

// removeAt tombstones slot i under the lock and best-effort compacts the
// live range at the edges. i == T is unreachable given Remove's scan
// bounds (see spec.md §9 open question (b)); the check is kept for
// defensive symmetry with the source it's modeled on.
func (d *Deque) removeAt(i uint64, u *unit.Unit) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.array[i&d.mask] == nil {
		return false
	}

	d.array[i&d.mask] = nil
	u.ClearPool()

	if i == d.tail.Load() {
		d.tail.Store(d.tail.Load() - 1)
	} else if i == d.head.Load() {
		d.head.Store(d.head.Load() + 1)
	}

	d.bump(&d.metrics.removes)
	return true
}

// Size returns T-H without synchronization: advisory only, may be stale
// or momentarily overshoot by one during a speculative steal/pop. Callers
// must not use it for correctness (spec.md §4.2.5).
func (d *Deque) Size() int {
	return int(d.tail.Load() - d.head.Load())
}

// Cap returns the current backing-array length. Like Size, it's an
// unsynchronized snapshot intended for tests and metrics, not control flow.
func (d *Deque) Cap() int {
	return len(d.array)
}

func (d *Deque) bump(counter *atomic.Uint64) {
	if d.metricsOn {
		counter.Add(1)
	}
}
