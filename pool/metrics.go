package pool

import "sync/atomic"

// metrics holds the advisory atomic counters backing Deque.Metrics. They
// exist purely for observability -- nothing in the deque's correctness
// depends on them, mirroring the teacher's Metrics struct (workerpool.go)
// generalized from a per-run summary to a per-deque lifetime counter set.
type metrics struct {
	pushes  atomic.Uint64
	pops    atomic.Uint64
	steals  atomic.Uint64
	removes atomic.Uint64
	grows   atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of a deque's counters.
type MetricsSnapshot struct {
	Pushes  uint64
	Pops    uint64
	Steals  uint64
	Removes uint64
	Grows   uint64
}

// Metrics returns a snapshot of this deque's advisory counters. Like
// Size, the snapshot is not linearized against concurrent operations.
func (d *Deque) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		Pushes:  d.metrics.pushes.Load(),
		Pops:    d.metrics.pops.Load(),
		Steals:  d.metrics.steals.Load(),
		Removes: d.metrics.removes.Load(),
		Grows:   d.metrics.grows.Load(),
	}
}
