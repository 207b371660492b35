package metrics_test

import (
	"testing"

	"github.com/isometry/gh-issue-bridge/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCacheCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.CacheHits.WithLabelValues("metrics-test"))
	metrics.CacheHits.WithLabelValues("metrics-test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CacheHits.WithLabelValues("metrics-test")))
}
