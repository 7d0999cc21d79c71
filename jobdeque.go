package workerpool

import (
	"sync"

	"github.com/dsugiyama/argobots/config"
	"github.com/dsugiyama/argobots/pool"
	"github.com/dsugiyama/argobots/unit"
)

// jobTable is the side table a JobDeque keeps so the underlying argobots
// deque -- which only ever stores an opaque task handle -- can hand back
// a typed Job[T]. This mirrors how Argobots' own thread/task subsystem,
// not the deque, owns the real objects a Unit points at (spec.md §3, §9).
type jobTable[T any] struct {
	mu    sync.Mutex
	next  unit.Handle
	items map[unit.Handle]Job[T]
}

func newJobTable[T any]() *jobTable[T] {
	return &jobTable[T]{items: make(map[unit.Handle]Job[T])}
}

func (jt *jobTable[T]) store(job Job[T]) *unit.Unit {
	jt.mu.Lock()
	defer jt.mu.Unlock()
	jt.next++
	h := jt.next
	jt.items[h] = job

	u := &unit.Unit{}
	unit.FromTask(u, h)
	return u
}

func (jt *jobTable[T]) take(u *unit.Unit) (Job[T], bool) {
	h := u.AsTask()
	jt.mu.Lock()
	defer jt.mu.Unlock()
	job, ok := jt.items[h]
	if ok {
		delete(jt.items, h)
	}
	return job, ok
}

// JobDeque adapts the argobots work-stealing deque (package pool) to the
// teacher's per-worker deque shape: Push/Pop/Steal/Size/IsEmpty over a
// typed job, instead of the raw *unit.Unit the deque itself stores.
type JobDeque[T any] struct {
	facade *pool.Facade
	deque  *pool.Deque
	table  *jobTable[T]
}

// NewJobDeque creates a deque for one work-stealing worker, sized to hold
// roughly initialCapacity jobs without growing.
func NewJobDeque[T any](initialCapacity int) *JobDeque[T] {
	f := pool.NewFacade()
	cfg := config.New(config.WithInitialCapacity(initialCapacity))
	return &JobDeque[T]{
		facade: f,
		deque:  f.Init(cfg),
		table:  newJobTable[T](),
	}
}

// Push adds a job to the deque's tail. Owner-only, see pool.Deque.Push.
func (jd *JobDeque[T]) Push(job Job[T]) {
	u := jd.table.store(job)
	jd.facade.Push(jd.deque, u)
}

// Pop removes and returns the most recently pushed job. Owner-only.
func (jd *JobDeque[T]) Pop() (Job[T], bool) {
	u := jd.facade.Pop(jd.deque)
	if u == nil {
		return zeroJob[T](), false
	}
	return jd.table.take(u)
}

// Steal removes and returns the least recently pushed job. Any goroutine
// may call Steal concurrently with the owner's Push/Pop and with other
// thieves' Steal calls.
func (jd *JobDeque[T]) Steal() (Job[T], bool) {
	u := jd.deque.Steal()
	if u == nil {
		return zeroJob[T](), false
	}
	return jd.table.take(u)
}

// Size returns the deque's advisory length. See pool.Deque.Size.
func (jd *JobDeque[T]) Size() int {
	return jd.facade.Size(jd.deque)
}

// IsEmpty reports whether Size is currently zero.
func (jd *JobDeque[T]) IsEmpty() bool {
	return jd.Size() == 0
}

func zeroJob[T any]() Job[T] {
	var z Job[T]
	return z
}
