package metrics

import (
	"net/http"

	"github.com/0xbe1/liquidated/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsServer struct {
	*http.Server
}

// NewMetricsServer returns a new prometheus server which collects gateway metrics
func NewMetricsServer(address string) *MetricsServer {
	metrics.Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))

	return &MetricsServer{
		Server: &http.Server{
			Addr:    address,
			Handler: mux,
		},
	}
}
