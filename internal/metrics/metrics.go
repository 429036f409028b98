// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "alumnijobs"

// Metrics owns a private registry so tests can build as many as they need
type Metrics struct {
	registry *prometheus.Registry

	transitions     *prometheus.CounterVec
	governor        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	membershipSyncs *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "application_transitions_total",
			Help:      "Application status changes by source and target status.",
		}, []string{"from", "to"}),
		governor: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "governor_outcomes_total",
			Help:      "Governed catalog calls by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "REST requests by route pattern and status code.",
		}, []string{"route", "code"}),
		membershipSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "membership_sync_total",
			Help:      "Membership reconciliation calls by operation and result.",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(m.transitions, m.governor, m.httpRequests, m.membershipSyncs)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ApplicationTransition counts one status change. Safe on a nil receiver.
func (m *Metrics) ApplicationTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// GovernorOutcome counts one governed call. Safe on a nil receiver.
func (m *Metrics) GovernorOutcome(outcome string) {
	if m == nil {
		return
	}
	m.governor.WithLabelValues(outcome).Inc()
}

// HTTPRequest counts one served request. Safe on a nil receiver.
func (m *Metrics) HTTPRequest(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// MembershipSync counts one reconciler call to the server. Safe on a nil receiver.
func (m *Metrics) MembershipSync(op string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.membershipSyncs.WithLabelValues(op, result).Inc()
}
