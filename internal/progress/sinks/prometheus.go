package sinks

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mwai-ops/doc-intel/internal/progress"
)

// PrometheusSink exports extraction progress metrics. It owns the collectors
// for running/completed extractions and the snapshot update counter.
type PrometheusSink struct {
	updatesTotal         prometheus.Counter
	extractionsRunning   prometheus.Gauge
	extractionsCompleted *prometheus.CounterVec

	mu     sync.Mutex
	active map[string]struct{}
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		updatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docintel_progress_updates_total",
			Help: "Total progress snapshots written across all sessions.",
		}),
		extractionsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docintel_extractions_running",
			Help: "Current number of in-flight extractions.",
		}),
		extractionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docintel_extractions_completed_total",
			Help: "Total extractions finished partitioned by result.",
		}, []string{"result"}),
		active: make(map[string]struct{}),
	}
	for _, collector := range []prometheus.Collector{
		s.updatesTotal,
		s.extractionsRunning,
		s.extractionsCompleted,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Record implements progress.Sink. It is safe for concurrent use across
// sessions.
func (s *PrometheusSink) Record(sessionID string, snap progress.Snapshot) error {
	s.updatesTotal.Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	_, running := s.active[sessionID]
	switch {
	case snap.Terminal():
		if running {
			delete(s.active, sessionID)
			s.extractionsRunning.Dec()
		}
		result := "success"
		if snap.Failed {
			result = "failure"
		}
		s.extractionsCompleted.WithLabelValues(result).Inc()
	case !running:
		s.active[sessionID] = struct{}{}
		s.extractionsRunning.Inc()
	}
	return nil
}
