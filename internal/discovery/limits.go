package discovery

import "time"

// Limits tunes the early-termination policy. The shape (time-and-yield,
// never a pure count limiter) is the contract; the numbers are exposed
// so a caller can tune them without forking the package, per the
// source's empirically-chosen constants.
type Limits struct {
	MinElapsed           time.Duration
	MinEmittedForElapsed int
	DirsVisitedRatio     int64
	EmittedRatio         int64

	// PoorYieldEmitted/PoorYieldDirs gate the override that lets a scan
	// continue past the wall-clock limit while almost nothing has been
	// found: fewer than PoorYieldEmitted repos with fewer than
	// PoorYieldDirs directories visited.
	PoorYieldEmitted int64
	PoorYieldDirs    int64
}

// DefaultLimits matches the reference constants: 450ms-and-50-repos, or
// 100,000 dirs-and-500-repos, whichever fires first, with the
// poor-yield override suppressing the wall-clock stop below 200 repos
// and 50,000 directories.
func DefaultLimits() Limits {
	return Limits{
		MinElapsed:           450 * time.Millisecond,
		MinEmittedForElapsed: 50,
		DirsVisitedRatio:     100000,
		EmittedRatio:         500,
		PoorYieldEmitted:     200,
		PoorYieldDirs:        50000,
	}
}

// orDefault substitutes DefaultLimits for the zero value, so callers
// that never set Options.Limits get the reference policy instead of a
// limiter that fires on the first check.
func (l Limits) orDefault() Limits {
	if l == (Limits{}) {
		return DefaultLimits()
	}
	return l
}

// shouldStop evaluates the two OR'd stop conditions against the current
// counters and elapsed wall-clock time. The wall-clock condition is
// suppressed while yield is still poor (few repos found, little ground
// covered); the ratio condition always stops.
func (l Limits) shouldStop(stats *Stats, startedAt time.Time) bool {
	emitted := stats.Emitted()
	dirsVisited := stats.DirsVisited()

	if dirsVisited > l.DirsVisitedRatio && emitted > l.EmittedRatio {
		return true
	}
	if time.Since(startedAt) >= l.MinElapsed && emitted >= int64(l.MinEmittedForElapsed) {
		poorYield := emitted < l.PoorYieldEmitted && dirsVisited < l.PoorYieldDirs
		return !poorYield
	}
	return false
}
