// Package metrics provides Prometheus counters for the lookup pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	CacheLookupsTotal    *prometheus.CounterVec
	RemoteCallsTotal     *prometheus.CounterVec
	ClassificationsTotal *prometheus.CounterVec
	LookupsTotal         *prometheus.CounterVec
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	m := &Metrics{}

	m.CacheLookupsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerquiz_cache_lookups_total",
			Help: "Cache reads by cache name and hit/miss",
		},
		[]string{"cache", "result"},
	)

	m.RemoteCallsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerquiz_remote_calls_total",
			Help: "Resolution and fetch strategy calls by outcome",
		},
		[]string{"strategy", "outcome"},
	)

	m.ClassificationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerquiz_classifications_total",
			Help: "Subject classification decisions",
		},
		[]string{"result"},
	)

	m.LookupsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerquiz_lookups_total",
			Help: "End-to-end lookups by outcome",
		},
		[]string{"outcome"},
	)

	return m
}

// RecordCacheLookup counts a cache read.
func (m *Metrics) RecordCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// RecordRemoteCall counts one strategy invocation. Outcome is one of "ok",
// "empty" or "error".
func (m *Metrics) RecordRemoteCall(strategy, outcome string) {
	if m == nil {
		return
	}
	m.RemoteCallsTotal.WithLabelValues(strategy, outcome).Inc()
}

// RecordClassification counts a classifier decision.
func (m *Metrics) RecordClassification(inDomain bool) {
	if m == nil {
		return
	}
	result := "out_of_domain"
	if inDomain {
		result = "in_domain"
	}
	m.ClassificationsTotal.WithLabelValues(result).Inc()
}

// RecordLookup counts a finished lookup.
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}
