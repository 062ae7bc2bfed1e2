// Package metrics exposes server and upstream counters to Prometheus.
package metrics

import (
	"maps"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	HTTPRequestsTotal    = "guestwifi_http_requests_total"
	HTTPRequestDuration  = "guestwifi_http_request_duration_seconds"
	UpstreamRetriesTotal = "guestwifi_upstream_retries_total"
	AccessDecisionsTotal = "guestwifi_access_decisions_total"
	DeviceOpsTotal       = "guestwifi_device_operations_total"
)

// Emitter emits different types of metrics.
type Emitter interface {
	AddCounter(metricName string, value float64, labels map[string]string)
	EmitGauge(metricName string, value float64, labels map[string]string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) AddCounter(string, float64, map[string]string) {}
func (Nop) EmitGauge(string, float64, map[string]string)  {}

// PrometheusEmitter registers a vector per metric name on first use. The
// label set of a name must not change between calls.
type PrometheusEmitter struct {
	mutex    sync.Mutex
	gauges   map[string]*prometheus.GaugeVec
	counters map[string]*prometheus.CounterVec
	registry prometheus.Registerer
}

func NewPrometheusEmitter(r prometheus.Registerer) *PrometheusEmitter {
	return &PrometheusEmitter{
		gauges:   make(map[string]*prometheus.GaugeVec),
		counters: make(map[string]*prometheus.CounterVec),
		registry: r,
	}
}

func (pe *PrometheusEmitter) EmitGauge(name string, value float64, labels map[string]string) {
	pe.mutex.Lock()
	defer pe.mutex.Unlock()
	vec, exists := pe.gauges[name]
	if !exists {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name}, labelKeys(labels))
		pe.registry.MustRegister(vec)
		pe.gauges[name] = vec
	}
	vec.With(labels).Set(value)
}

func (pe *PrometheusEmitter) AddCounter(name string, value float64, labels map[string]string) {
	pe.mutex.Lock()
	defer pe.mutex.Unlock()
	vec, exists := pe.counters[name]
	if !exists {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name}, labelKeys(labels))
		pe.registry.MustRegister(vec)
		pe.counters[name] = vec
	}
	vec.With(labels).Add(value)
}

func labelKeys(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}

// Handler serves the registry in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code sent to the client.
func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests and records their duration per route
// template, method and status.
func Middleware(e Emitter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := "unknown"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			labels := map[string]string{
				"method": r.Method,
				"route":  route,
				"code":   strconv.Itoa(rec.statusCode),
			}
			e.AddCounter(HTTPRequestsTotal, 1, labels)
			e.EmitGauge(HTTPRequestDuration, time.Since(start).Seconds(), labels)
		})
	}
}

// RetryObserver returns a hook for httpx.RetryDoer that counts retried
// upstream calls by host.
func RetryObserver(e Emitter) func(req *http.Request, attempt int) {
	return func(req *http.Request, _ int) {
		e.AddCounter(UpstreamRetriesTotal, 1, map[string]string{"host": req.URL.Host})
	}
}
