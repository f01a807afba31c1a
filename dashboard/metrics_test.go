package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.ObserveRecompute(3 * time.Millisecond)
	m.CacheHit()
	m.CacheHit()
	m.SetDatasetRecords(42)
	m.Reload(nil)
	m.Reload(errors.New("boom"))
	m.Reload(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recomputations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.datasetRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reloads.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.recomputeSeconds))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRecompute(time.Millisecond)
		m.CacheHit()
		m.SetDatasetRecords(1)
		m.Reload(nil)
	})
}
