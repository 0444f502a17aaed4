// Package metrics exposes prometheus instrumentation for the registration
// service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics bundles the collectors for registrations, logins and occupancy.
type Metrics struct {
	registry *prometheus.Registry

	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	occupancy     *prometheus.GaugeVec
	capacity      *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "race_registrations_total",
			Help: "Participant registration attempts by distance and result.",
		}, []string{"distance", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "race_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		occupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "race_distance_occupancy",
			Help: "Current number of admitted entrants per distance.",
		}, []string{"distance"}),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "race_distance_capacity",
			Help: "Capacity limit per distance.",
		}, []string{"distance"}),
	}
	registry.MustRegister(m.registrations, m.logins, m.occupancy, m.capacity)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// A nil *Metrics is valid and records nothing, so callers that run without
// instrumentation do not need to guard every observation.

func (m *Metrics) ObserveRegistration(distance, result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(distance, result).Inc()
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) SetOccupancy(distance string, occupancy, capacity int) {
	if m == nil {
		return
	}
	m.occupancy.WithLabelValues(distance).Set(float64(occupancy))
	m.capacity.WithLabelValues(distance).Set(float64(capacity))
}
