package telemetry

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "page_requests_total",
			Help:      "Dashboard requests by route and response status",
		},
		[]string{"route", "status"},
	)

	pageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "page_request_duration_seconds",
			Help:      "Time to render a page or finish an action, backend calls included",
			Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route"},
	)

	activeStreams = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "event_streams_active",
			Help:      "Open server-sent event streams",
		},
		[]string{"stream"},
	)
)

// statusRecorder remembers the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func NewResponseWriter(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// Flush keeps event streams working behind the recorder.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

func (sr *statusRecorder) code() int {
	if sr.status == 0 {
		return http.StatusOK
	}
	return sr.status
}

// Middleware labels metrics by the matched route pattern, so path values such
// as product ids stay out of the label set.
func Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := NewResponseWriter(w)

		next(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		status := rec.code()

		pageRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		pageRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "Request processed",
			"route", route,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
		)
	}
}

// StreamOpened counts an open event stream until the returned func is called.
func StreamOpened(stream string) (closed func()) {
	g := activeStreams.WithLabelValues(stream)
	g.Inc()
	return g.Dec
}
