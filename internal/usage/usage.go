package usage

import (
	"math"
	"time"
)

// Percent is a whole utilisation percentage in [0, 100].
type Percent int

// CoreTimes holds the cumulative time one logical core has spent in each
// scheduler state since boot.
type CoreTimes struct {
	Idle    time.Duration
	User    time.Duration
	Nice    time.Duration
	System  time.Duration
	IOWait  time.Duration
	IRQ     time.Duration
	SoftIRQ time.Duration
	Steal   time.Duration
}

// Total returns the sum of all state buckets, idle included.
func (c CoreTimes) Total() time.Duration {
	return c.Idle + c.User + c.Nice + c.System + c.IOWait + c.IRQ + c.SoftIRQ + c.Steal
}

// CPUSnapshot is the ordered per-core time table captured at one instant.
// A snapshot is never modified after capture.
type CPUSnapshot struct {
	Cores      []CoreTimes
	CapturedAt time.Time
}

// NumCores returns the number of cores in the snapshot.
func (s CPUSnapshot) NumCores() int { return len(s.Cores) }

// CPUUsage returns the share of core time spent busy between previous and
// current, summed over all cores.
//
// Both snapshots must list the same cores in the same order. Core-count
// changes (CPU hot-plug) are not handled here: a previous snapshot with
// fewer cores than current panics on the index, and one with more cores
// silently ignores the extra entries. Callers compare NumCores first.
//
// When no core time elapsed (identical snapshots, or a counter that went
// backwards) the result is 0. The function is pure; replacing the stored
// previous snapshot with current is the caller's job.
func CPUUsage(previous, current CPUSnapshot) Percent {
	var idleDelta, totalDelta time.Duration
	for i, cur := range current.Cores {
		prev := previous.Cores[i]
		idleDelta += cur.Idle - prev.Idle
		totalDelta += cur.Total() - prev.Total()
	}

	if totalDelta <= 0 {
		return 0
	}

	busy := 1 - float64(idleDelta)/float64(totalDelta)
	return clamp(math.Round(busy * 100))
}

// RAMUsage returns the used share of total memory. totalBytes must be
// non-zero; the samplers in this module never report a zero total.
func RAMUsage(totalBytes, freeBytes uint64) Percent {
	used := float64(totalBytes) - float64(freeBytes)
	return clamp(math.Round(used / float64(totalBytes) * 100))
}

func clamp(v float64) Percent {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return Percent(v)
}
