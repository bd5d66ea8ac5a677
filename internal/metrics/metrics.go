package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_ticks_total", Help: "Completed polling cycles"},
	)
	TickFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_tick_failures_total", Help: "Polling cycles aborted by an error"},
	)
	CaptureFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_capture_failures_total", Help: "Capture attempts that failed outright"},
	)
	FragmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_fragments_total", Help: "Raw UI fragments observed"},
	)
	PositionsExtractedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_positions_extracted_total", Help: "Position records recovered from fragments"},
	)
	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bridge_events_published_total", Help: "Signal events delivered downstream"},
		[]string{"action"},
	)
	EventsDebouncedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_events_debounced_total", Help: "Events suppressed by the signature window"},
	)
	PublishFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bridge_publish_failures_total", Help: "Failed signal file replacements"},
	)
)

func init() {
	prometheus.MustRegister(
		TicksTotal, TickFailuresTotal, CaptureFailuresTotal, FragmentsTotal,
		PositionsExtractedTotal, EventsPublishedTotal, EventsDebouncedTotal,
		PublishFailuresTotal,
	)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
