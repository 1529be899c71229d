package metrics

import (
	"sync"

	"github.com/0xbe1/liquidated/metrics"
	httpmetrics "github.com/slok/go-http-metrics/metrics"
	"github.com/slok/go-http-metrics/metrics/prometheus"
)

var (
	recorder     httpmetrics.Recorder
	recorderOnce sync.Once
)

// HTTPRecorder returns the recorder of the HTTP middleware. Its collectors
// live in the default registry, so it is created once per process.
func HTTPRecorder() httpmetrics.Recorder {
	recorderOnce.Do(func() {
		recorder = prometheus.NewRecorder(prometheus.Config{Prefix: metrics.Namespace})
	})
	return recorder
}
