package logger

import (
	"context"
	"sort"
	"sync"
	"time"
)

type opCounters struct {
	total   int64
	failed  int64
	latency time.Duration
	max     time.Duration
}

type Metrics struct {
	mu  sync.Mutex
	ops map[string]*opCounters
}

var globalMetrics = &Metrics{ops: make(map[string]*opCounters)}

type OperationStats struct {
	Name         string
	Total        int64
	Failed       int64
	AvgLatencyMs float64
	MaxLatencyMs float64
}

func RecordOperation(operation string, err error, duration time.Duration) {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	c, ok := globalMetrics.ops[operation]
	if !ok {
		c = &opCounters{}
		globalMetrics.ops[operation] = c
	}
	c.total++
	c.latency += duration
	if duration > c.max {
		c.max = duration
	}
	if err != nil {
		c.failed++
	}
}

func GetMetrics() map[string]OperationStats {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	result := make(map[string]OperationStats, len(globalMetrics.ops))
	for name, c := range globalMetrics.ops {
		stats := OperationStats{
			Name:         name,
			Total:        c.total,
			Failed:       c.failed,
			MaxLatencyMs: float64(c.max) / 1e6,
		}
		if c.total > 0 {
			stats.AvgLatencyMs = float64(c.latency) / float64(c.total) / 1e6
		}
		result[name] = stats
	}
	return result
}

// Snapshot returns GetMetrics sorted by operation name.
func Snapshot() []OperationStats {
	m := GetMetrics()
	out := make([]OperationStats, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func TimedOperation(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	log := FromContext(ctx).With("operation", operation)
	log.Debug("starting operation")

	err := fn()
	duration := time.Since(start)

	RecordOperation(operation, err, duration)

	if err != nil {
		log.Error("operation failed", "error", err, "duration", duration)
	} else {
		log.Debug("operation completed", "duration", duration)
	}

	return err
}

func ResetMetrics() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()
	globalMetrics.ops = make(map[string]*opCounters)
}
