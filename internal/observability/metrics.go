package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks tool-call activity for the whole process. All methods
// are safe for concurrent use.
type Metrics struct {
	totalCalls   atomic.Int64
	failedCalls  atomic.Int64
	totalLatency atomic.Int64 // milliseconds

	mu      sync.RWMutex
	perTool map[string]*toolMetrics
}

type toolMetrics struct {
	calls    atomic.Int64
	failures atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{perTool: make(map[string]*toolMetrics)}
}

// RecordCall records one completed tool call.
func (m *Metrics) RecordCall(tool string, latency time.Duration, failed bool) {
	m.totalCalls.Add(1)
	m.totalLatency.Add(latency.Milliseconds())
	if failed {
		m.failedCalls.Add(1)
	}

	tm := m.forTool(tool)
	tm.calls.Add(1)
	if failed {
		tm.failures.Add(1)
	}
}

func (m *Metrics) forTool(tool string) *toolMetrics {
	m.mu.RLock()
	tm, ok := m.perTool[tool]
	m.mu.RUnlock()
	if ok {
		return tm
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if tm, ok = m.perTool[tool]; ok {
		return tm
	}
	tm = &toolMetrics{}
	m.perTool[tool] = tm
	return tm
}

// Snapshot returns the current counters as a plain map for the health
// endpoint.
func (m *Metrics) Snapshot() map[string]any {
	total := m.totalCalls.Load()
	snap := map[string]any{
		"total_calls":  total,
		"failed_calls": m.failedCalls.Load(),
	}
	if total > 0 {
		snap["avg_latency_ms"] = m.totalLatency.Load() / total
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	tools := make(map[string]any, len(m.perTool))
	for name, tm := range m.perTool {
		tools[name] = map[string]int64{
			"calls":    tm.calls.Load(),
			"failures": tm.failures.Load(),
		}
	}
	snap["tools"] = tools
	return snap
}
