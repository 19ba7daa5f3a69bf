package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetrics_RecordsLabelledCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordCacheLookup("search", true)
	m.RecordCacheLookup("search", false)
	m.RecordCacheLookup("search", true)
	m.RecordRemoteCall("exact_title", "ok")
	m.RecordClassification(false)
	m.RecordLookup("not_found")

	assert.Equal(t, 2.0, counterValue(t, reg, "careerquiz_cache_lookups_total", map[string]string{"cache": "search", "result": "hit"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "careerquiz_cache_lookups_total", map[string]string{"cache": "search", "result": "miss"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "careerquiz_remote_calls_total", map[string]string{"strategy": "exact_title", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "careerquiz_classifications_total", map[string]string{"result": "out_of_domain"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "careerquiz_lookups_total", map[string]string{"outcome": "not_found"}))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCacheLookup("page", true)
		m.RecordRemoteCall("rest", "error")
		m.RecordClassification(true)
		m.RecordLookup("ok")
	})
}

func TestMetrics_UnregisteredWithNilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		New(nil).RecordLookup("ok")
		New(nil).RecordLookup("ok")
	})
}
