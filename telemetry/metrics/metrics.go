// Package metrics implements the read-only diagnostics surface of spec.md
// §6.3: totals for serial vs parallel drains, moving averages of their
// durations, computed efficiency percentage, the concurrent-enabled flag,
// and the current thresholds.
//
// Grounded on _examples/newbpydev-bubblyui/pkg/bubbly/monitoring/prometheus.go,
// which wraps github.com/prometheus/client_golang the same way: a typed
// struct of pre-registered collectors, one constructor taking a
// prometheus.Registerer, and plain recording methods. Unlike that example,
// these metrics also back an in-process snapshot (Diagnostics) because
// spec.md's surface is queried programmatically by the host, not only
// scraped.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Diagnostics is a point-in-time snapshot of spec.md §6.3's surface.
type Diagnostics struct {
	SerialDrains     uint64
	ParallelDrains   uint64
	AvgSerialMillis  float64
	AvgParallelMillis float64
	EfficiencyPct    float64
	ConcurrentEnabled bool
	TIsolate         int
	TDirectReplace   int
	CConcurrent      int
}

// Collector records drain timings and exposes both a live Diagnostics
// snapshot and Prometheus collectors for the same data.
type Collector struct {
	mu sync.Mutex

	serialDrains   uint64
	parallelDrains uint64
	avgSerial      float64 // exponential moving average, milliseconds
	avgParallel    float64

	concurrentEnabled bool
	tIsolate          int
	tDirectReplace    int
	cConcurrent       int

	drainsTotal    *prometheus.CounterVec
	drainDuration  *prometheus.HistogramVec
	efficiencyGauge prometheus.Gauge
}

// NewCollector creates a Collector and registers its Prometheus collectors
// against reg. Panics on duplicate registration, matching the fail-fast
// convention of bubblyui's NewPrometheusMetrics.
func NewCollector(reg prometheus.Registerer, tIsolate, tDirectReplace, cConcurrent int) *Collector {
	c := &Collector{
		tIsolate:       tIsolate,
		tDirectReplace: tDirectReplace,
		cConcurrent:    cConcurrent,
	}

	c.drainsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reconcile_drains_total",
		Help: "Total number of scheduler drains, partitioned by path (serial/parallel).",
	}, []string{"path"})

	c.drainDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reconcile_drain_duration_milliseconds",
		Help:    "Drain duration in milliseconds, partitioned by path (serial/parallel).",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50, 100, 250, 500},
	}, []string{"path"})

	c.efficiencyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reconcile_parallel_efficiency_ratio",
		Help: "(avg_serial - avg_parallel) / avg_serial, updated after each drain.",
	})

	if reg != nil {
		reg.MustRegister(c.drainsTotal, c.drainDuration, c.efficiencyGauge)
	}

	return c
}

// RecordDrain records one drain's duration on the given path ("serial" or
// "parallel") and updates the moving averages and efficiency per spec.md
// §4.7 step 6.
func (c *Collector) RecordDrain(parallel bool, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := float64(d.Microseconds()) / 1000.0
	const alpha = 0.2 // exponential moving average weight

	path := "serial"
	if parallel {
		path = "parallel"
		c.parallelDrains++
		if c.avgParallel == 0 {
			c.avgParallel = ms
		} else {
			c.avgParallel = alpha*ms + (1-alpha)*c.avgParallel
		}
	} else {
		c.serialDrains++
		if c.avgSerial == 0 {
			c.avgSerial = ms
		} else {
			c.avgSerial = alpha*ms + (1-alpha)*c.avgSerial
		}
	}

	if c.drainsTotal != nil {
		c.drainsTotal.WithLabelValues(path).Inc()
		c.drainDuration.WithLabelValues(path).Observe(ms)
	}

	if c.avgSerial > 0 {
		eff := (c.avgSerial - c.avgParallel) / c.avgSerial
		if c.efficiencyGauge != nil {
			c.efficiencyGauge.Set(eff)
		}
	}
}

// SetConcurrentEnabled updates the live concurrent-enabled flag (runtime-adjustable per §6.3).
func (c *Collector) SetConcurrentEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.concurrentEnabled = enabled
}

// SetThresholds updates the live threshold values (runtime-adjustable per §6.3).
func (c *Collector) SetThresholds(tIsolate, tDirectReplace, cConcurrent int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tIsolate, c.tDirectReplace, c.cConcurrent = tIsolate, tDirectReplace, cConcurrent
}

// Snapshot returns the current diagnostics surface.
func (c *Collector) Snapshot() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()

	eff := 0.0
	if c.avgSerial > 0 {
		eff = (c.avgSerial - c.avgParallel) / c.avgSerial
	}

	return Diagnostics{
		SerialDrains:      c.serialDrains,
		ParallelDrains:    c.parallelDrains,
		AvgSerialMillis:   c.avgSerial,
		AvgParallelMillis: c.avgParallel,
		EfficiencyPct:     eff * 100,
		ConcurrentEnabled: c.concurrentEnabled,
		TIsolate:          c.tIsolate,
		TDirectReplace:    c.tDirectReplace,
		CConcurrent:       c.cConcurrent,
	}
}
