// Package sysmon reads the raw OS counters the usage calculations work on:
// per-core CPU time buckets and system memory totals.
package sysmon

import (
	"context"
	"errors"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/usage"
)

// MemoryStat holds system memory totals in bytes.
type MemoryStat struct {
	Total uint64
	Free  uint64
}

// Source captures instantaneous OS counters.
type Source interface {
	// CPUTimes returns cumulative per-core time buckets, one entry per
	// logical core in a stable order.
	CPUTimes(ctx context.Context) (usage.CPUSnapshot, error)
	// Memory returns total and free physical memory.
	Memory(ctx context.Context) (MemoryStat, error)
}

// GopsutilSource implements Source with gopsutil.
type GopsutilSource struct {
	now func() time.Time
}

// Verify interface compliance.
var _ Source = (*GopsutilSource)(nil)

// NewGopsutilSource returns the default OS-backed source.
func NewGopsutilSource() *GopsutilSource {
	return &GopsutilSource{now: time.Now}
}

// CPUTimes reads per-core times.
func (g *GopsutilSource) CPUTimes(ctx context.Context) (usage.CPUSnapshot, error) {
	stats, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return usage.CPUSnapshot{}, apperrors.SampleError{Source: "cpu", Cause: err}
	}
	if len(stats) == 0 {
		return usage.CPUSnapshot{}, apperrors.SampleError{Source: "cpu", Cause: errors.New("no cores reported")}
	}
	return usage.CPUSnapshot{Cores: coreTimes(stats), CapturedAt: g.now()}, nil
}

// Memory reads the physical memory totals. Free is the memory available to
// new workloads without swapping, which includes reclaimable caches.
func (g *GopsutilSource) Memory(ctx context.Context) (MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, apperrors.SampleError{Source: "memory", Cause: err}
	}
	if vm == nil || vm.Total == 0 {
		return MemoryStat{}, apperrors.SampleError{Source: "memory", Cause: errors.New("zero total memory reported")}
	}
	return MemoryStat{Total: vm.Total, Free: vm.Available}, nil
}

// coreTimes converts gopsutil's per-core seconds into duration buckets.
// Guest time is already contained in user time and is not added again.
func coreTimes(stats []cpu.TimesStat) []usage.CoreTimes {
	cores := make([]usage.CoreTimes, len(stats))
	for i, s := range stats {
		cores[i] = usage.CoreTimes{
			Idle:    seconds(s.Idle),
			User:    seconds(s.User),
			Nice:    seconds(s.Nice),
			System:  seconds(s.System),
			IOWait:  seconds(s.Iowait),
			IRQ:     seconds(s.Irq),
			SoftIRQ: seconds(s.Softirq),
			Steal:   seconds(s.Steal),
		}
	}
	return cores
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

