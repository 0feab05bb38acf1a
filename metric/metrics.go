// Package metric exposes Prometheus counters for component registration and
// field validation.
//
// The zero value of *Metrics is usable: every recording method is a no-op on
// a nil receiver, so packages accept an optional *Metrics without guarding
// each call site.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wpdlib"

// Registration outcomes
const (
	OutcomeStored   = "stored"
	OutcomeMerged   = "merged"
	OutcomeAttached = "attached"
	OutcomeRejected = "rejected"
)

// Validation outcomes
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics contains the library counters
type Metrics struct {
	ComponentsRegistered *prometheus.CounterVec
	RegistrationErrors   *prometheus.CounterVec
	FieldValidations     *prometheus.CounterVec
	FieldsCreated        *prometheus.CounterVec
}

// NewMetrics creates the library counters without registering them
func NewMetrics() *Metrics {
	return &Metrics{
		ComponentsRegistered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "components",
				Name:      "registered_total",
				Help:      "Components accepted by a registry, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		RegistrationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "components",
				Name:      "registration_errors_total",
				Help:      "Rejected component registrations, by error code",
			},
			[]string{"code"},
		),

		FieldValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fields",
				Name:      "validations_total",
				Help:      "Field value validations, by field type and outcome",
			},
			[]string{"type", "outcome"},
		),

		FieldsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fields",
				Name:      "created_total",
				Help:      "Field instances created by the field manager, by type",
			},
			[]string{"type"},
		),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ComponentsRegistered,
		m.RegistrationErrors,
		m.FieldValidations,
		m.FieldsCreated,
	}
}

// RecordRegistration counts an accepted component
func (m *Metrics) RecordRegistration(kind, outcome string) {
	if m == nil {
		return
	}
	m.ComponentsRegistered.WithLabelValues(kind, outcome).Inc()
}

// RecordRegistrationError counts a rejected registration
func (m *Metrics) RecordRegistrationError(code string) {
	if m == nil {
		return
	}
	m.RegistrationErrors.WithLabelValues(code).Inc()
}

// RecordValidation counts a field validation
func (m *Metrics) RecordValidation(fieldType string, valid bool) {
	if m == nil {
		return
	}
	outcome := OutcomeValid
	if !valid {
		outcome = OutcomeInvalid
	}
	m.FieldValidations.WithLabelValues(fieldType, outcome).Inc()
}

// RecordFieldCreated counts a field instance
func (m *Metrics) RecordFieldCreated(fieldType string) {
	if m == nil {
		return
	}
	m.FieldsCreated.WithLabelValues(fieldType).Inc()
}
