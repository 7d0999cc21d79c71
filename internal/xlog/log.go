// Package xlog is the ambient structured-logging wrapper used by the
// deque (package pool). It is a thin shim over the standard library's
// slog rather than a bespoke logger; its one non-stdlib dependency is
// go-humanize, for formatting counts in log lines — see DESIGN.md.
package xlog

import (
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Default is the package-level logger every component logs through. Tests
// may redirect it; production code leaves it pointed at stderr.
var Default = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelWarn,
}))

// Grow logs a deque buffer growth, rendering capacities in a
// human-readable form the way a CLI-facing pack repo would.
func Grow(poolID uint64, from, to int) {
	Default.Debug("deque grow",
		"pool", poolID,
		"from", humanize.Comma(int64(from)),
		"to", humanize.Comma(int64(to)),
	)
}

// WrapAround logs a head/tail index collapse triggered by the wraparound
// guard in Push.
func WrapAround(poolID uint64, live int) {
	Default.Debug("deque index wraparound",
		"pool", poolID,
		"live", humanize.Comma(int64(live)),
	)
}

// TombstoneRetry logs a consumer retrying past a tombstoned slot; useful
// for spotting a deque under remove-heavy churn (design note: tombstones
// vs compaction).
func TombstoneRetry(poolID uint64, op string) {
	Default.Debug("deque tombstone skipped", "pool", poolID, "op", op)
}

// TombstoneRetryCapExceeded logs a consumer giving up after hitting its
// configured tombstone-retry cap (spec.md §9 open question (c): an
// implementer may cap retries rather than spin unbounded).
func TombstoneRetryCapExceeded(poolID uint64, op string, cap int) {
	Default.Warn("deque tombstone retry cap exceeded",
		"pool", poolID, "op", op, "cap", cap)
}
