package pool

import (
	"github.com/dsugiyama/argobots/config"
	"github.com/dsugiyama/argobots/unit"
)

// AccessMode tags the concurrency discipline a pool kind supports. The
// deque pool only ever declares AccessSPMC -- single producer (the
// owner), multiple consumers (any number of thieves) -- but the type
// exists as a real, comparable value (not just documentation) so a
// future multi-pool-kind registry can branch on it, matching the
// ABT_pool_def.access field it's modeled on.
type AccessMode int

const (
	// AccessSPMC: single producer, multiple consumers.
	AccessSPMC AccessMode = iota
)

func (m AccessMode) String() string {
	switch m {
	case AccessSPMC:
		return "SPMC"
	default:
		return "unknown"
	}
}

// Facade exposes a Deque through the runtime's generic pool operation
// table: Init, Free, Size, Push, Pop, Remove, plus the unit package's
// introspection and construction functions. It is stateless -- every
// call takes the *Deque it operates on -- so a single Facade value can
// front any number of deques.
type Facade struct {
	AccessMode AccessMode
}

// NewFacade returns the deque pool's operation table.
func NewFacade() *Facade {
	return &Facade{AccessMode: AccessSPMC}
}

// Init creates a new deque per cfg.
func (f *Facade) Init(cfg config.Config) *Deque {
	return New(cfg)
}

// Free releases any resources held by d. The backing array is ordinary
// Go memory reclaimed by the garbage collector, so this is a no-op; it
// exists for parity with the source's explicit p_free hook and as the
// place a future pool kind with external resources would clean them up.
func (f *Facade) Free(d *Deque) {}

// Size returns d's advisory length. See Deque.Size.
func (f *Facade) Size(d *Deque) int { return d.Size() }

// Push stores u at d's tail. Owner-only.
func (f *Facade) Push(d *Deque, u *unit.Unit) { d.Push(u) }

// Pop removes and returns d's most recently pushed unit. Owner-only.
func (f *Facade) Pop(d *Deque) *unit.Unit { return d.Pop() }

// Remove deletes u from d. Owner-only.
func (f *Facade) Remove(d *Deque, u *unit.Unit) bool { return d.Remove(u) }

// Type returns u's discriminant.
func (f *Facade) Type(u *unit.Unit) unit.Kind { return u.Type() }

// AsThread returns u's thread handle, or unit.NoHandle if u isn't a thread.
func (f *Facade) AsThread(u *unit.Unit) unit.Handle { return u.AsThread() }

// AsTask returns u's task handle, or unit.NoHandle if u isn't a task.
func (f *Facade) AsTask(u *unit.Unit) unit.Handle { return u.AsTask() }

// InPool reports whether u carries a live pool back-reference.
func (f *Facade) InPool(u *unit.Unit) bool { return u.InPool() }

// FromThread initializes storage as a thread-like unit.
func (f *Facade) FromThread(slot *unit.Unit, h unit.Handle) { unit.FromThread(slot, h) }

// FromTask initializes storage as a task-like unit.
func (f *Facade) FromTask(slot *unit.Unit, h unit.Handle) { unit.FromTask(slot, h) }

// ReleaseUnit zeroes the caller's reference to a unit.
func (f *Facade) ReleaseUnit(slot **unit.Unit) { unit.Release(slot) }

// Steal is deliberately not part of the facade's operation table: it's
// the one operation any foreign worker calls directly on the *Deque it
// wants to raid, not through the owner-bound facade (spec.md §4.3, §6).
