package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	CacheHit()
	assert.Equal(t, before+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))

	ObserveUpstream("test", "200", 10*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(upstreamRequests.WithLabelValues("test", "200")), float64(1))

	SubscriberAdded()
	SubscriberRemoved()
	assert.Equal(t, float64(0), testutil.ToFloat64(activeSubscriptions))
}

func TestRegisteredInDefaultRegistry(t *testing.T) {
	Register()
	LiquidationSeen("cUSDC")
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, Namespace+"_watcher_liquidations_total")
}
