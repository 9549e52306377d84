package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures MemoryChecker.
type MemoryCheckerConfig struct {
	// MaxHeapBytes is the heap size treated as 100%. Zero uses the memory
	// obtained from the OS (runtime.MemStats.Sys).
	MaxHeapBytes uint64

	// WarningThreshold is the usage ratio that triggers Degraded. Default 0.8.
	WarningThreshold float64

	// CriticalThreshold is the usage ratio that triggers Unhealthy. Default 0.95.
	CriticalThreshold float64
}

// MemoryChecker reports heap usage. Large sieve bounds allocate one byte per
// candidate, so heap pressure is the first thing to watch.
type MemoryChecker struct {
	cfg       MemoryCheckerConfig
	readStats func(*runtime.MemStats)
}

// NewMemoryChecker creates a MemoryChecker, filling in default thresholds.
func NewMemoryChecker(cfg MemoryCheckerConfig) *MemoryChecker {
	if cfg.WarningThreshold <= 0 || cfg.WarningThreshold >= 1 {
		cfg.WarningThreshold = 0.8
	}
	if cfg.CriticalThreshold <= 0 || cfg.CriticalThreshold > 1 {
		cfg.CriticalThreshold = 0.95
	}
	if cfg.CriticalThreshold < cfg.WarningThreshold {
		cfg.CriticalThreshold = cfg.WarningThreshold
	}
	return &MemoryChecker{cfg: cfg, readStats: runtime.ReadMemStats}
}

func (m *MemoryChecker) Name() string { return "memory" }

func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	var stats runtime.MemStats
	m.readStats(&stats)

	limit := m.cfg.MaxHeapBytes
	if limit == 0 {
		limit = stats.Sys
	}
	details := map[string]any{
		"heap_alloc": stats.HeapAlloc,
		"heap_sys":   stats.HeapSys,
		"sys":        stats.Sys,
		"num_gc":     stats.NumGC,
		"goroutines": runtime.NumGoroutine(),
		"limit":      limit,
	}
	if limit == 0 {
		return Healthy("memory stats unavailable").WithDetails(details)
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details["usage_percent"] = ratio * 100

	switch {
	case ratio >= m.cfg.CriticalThreshold:
		return Unhealthy(fmt.Sprintf("heap usage critical: %.1f%%", ratio*100), ErrCheckFailed).
			WithDetails(details)
	case ratio >= m.cfg.WarningThreshold:
		return Degraded(fmt.Sprintf("heap usage high: %.1f%%", ratio*100)).WithDetails(details)
	default:
		return Healthy(fmt.Sprintf("heap usage normal: %.1f%%", ratio*100)).WithDetails(details)
	}
}
