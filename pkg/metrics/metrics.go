package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "coastdash"

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: subsystem,
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	dashboards = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "dashboards_composed_total",
			Subsystem: subsystem,
			Help:      "Dashboards computed, by where the location came from.",
		},
		[]string{"source"},
	)

	topChoices = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "top_swim_label_total",
			Subsystem: subsystem,
			Help:      "Qualitative label of the recommended swim time served.",
		},
		[]string{"label"},
	)

	userRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "user_requests_total",
			Subsystem: subsystem,
			Help:      "Requests from users with and without saved preferences.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		dashboards,
		topChoices,
		userRequests,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveDashboard counts a composed dashboard. Source is "query", "user" or
// "default".
func ObserveDashboard(source string) {
	dashboards.WithLabelValues(source).Inc()
}

// ObserveTopChoice counts the label of a recommended swim window.
func ObserveTopChoice(label string) {
	topChoices.WithLabelValues(label).Inc()
}

// ObserveUserRequest counts a request by whether it carried a user id.
func ObserveUserRequest(id any) {
	kind := "anonymous"
	if id != nil {
		kind = "known"
	}
	userRequests.WithLabelValues(kind).Inc()
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, rec.code(), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) code() string {
	if s.status == 0 {
		// Unset, will be set to 200 by stdlib.
		return "200"
	}
	return strconv.Itoa(s.status)
}
