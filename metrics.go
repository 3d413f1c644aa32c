package payauth

import "sync/atomic"

// MetricID identifies one in-process counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts password mismatches.
	MetricLoginFailure
	// MetricLoginNotFound counts logins against unknown identities.
	MetricLoginNotFound
	// MetricLoginRateLimited counts logins rejected by the brute-force limiter.
	MetricLoginRateLimited
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess
	// MetricRegisterRejected counts registrations rejected by validation.
	MetricRegisterRejected
	// MetricRegisterConflict counts registrations lost to uniqueness conflicts.
	MetricRegisterConflict
	// MetricTokenInvalid counts tokens failing parse or signature checks.
	MetricTokenInvalid
	// MetricTokenExpired counts tokens rejected for elapsed expiry.
	MetricTokenExpired
	// MetricRoleDenied counts role-guard rejections.
	MetricRoleDenied

	metricIDCount
)

// Counters sit in cache-line-padded slots so concurrent increments of
// neighboring IDs do not false-share.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics holds atomic counters for auth outcomes. All operations are no-ops
// when disabled. The write path is allocation-free.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a Metrics instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc atomically increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot deep-copies all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}
