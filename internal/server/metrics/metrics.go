// Package metrics exposes Prometheus counters for the account flows and the
// token filter. A nil *Registry is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophauth"

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	registrations   *prometheus.CounterVec
	logins          *prometheus.CounterVec
	tokenRejections prometheus.Counter
	requests        *prometheus.HistogramVec
}

// NewRegistry creates the metrics on a private registry, together with the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accounts",
		Name:      "registrations_total",
		Help:      "Sign-up attempts by outcome",
	}, []string{"outcome"})

	r.logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "accounts",
		Name:      "logins_total",
		Help:      "Login attempts by outcome",
	}, []string{"outcome"})

	r.tokenRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "token_rejections_total",
		Help:      "Requests rejected by the bearer token filter",
	})

	r.requests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})

	r.reg.MustRegister(
		r.registrations,
		r.logins,
		r.tokenRejections,
		r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *Registry) Registration(outcome string) {
	if r == nil {
		return
	}
	r.registrations.WithLabelValues(outcome).Inc()
}

func (r *Registry) Login(outcome string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(outcome).Inc()
}

func (r *Registry) TokenRejected() {
	if r == nil {
		return
	}
	r.tokenRejections.Inc()
}

// ObserveRequest records one served request.
func (r *Registry) ObserveRequest(route, status string, seconds float64) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, status).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
