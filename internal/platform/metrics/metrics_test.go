package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCounters(t *testing.T) {
	m := New()

	m.CacheLookup("trucks", "hit")
	m.CacheLookup("trucks", "hit")
	m.CacheLookup("trucks", "miss")
	m.CacheFetch("trucks", nil)
	m.CacheFetch("trucks", errors.New("boom"))
	m.Invalidated("stations")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("trucks", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("trucks", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheFetches.WithLabelValues("trucks", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations.WithLabelValues("stations")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/trucks", 200, time.Second)
	m.CacheLookup("trucks", "hit")
	m.Suggestion("applied")
}

func TestWriteText(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/trucks", 200, 10*time.Millisecond)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), "fuel_dispatch_transport_requests_total")
}
