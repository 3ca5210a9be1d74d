// Package metrics exposes import progress counters. Long sheet imports
// run for minutes, so the app can serve these on an optional listener.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the importer's Prometheus collectors.
type Metrics struct {
	RowsMapped *prometheus.CounterVec
	Advisories *prometheus.CounterVec
	Upserts    *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RowsMapped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_import_rows_total",
			Help: "Rows processed, labeled by outcome.",
		}, []string{"status"}),
		Advisories: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_import_advisories_total",
			Help: "Non-fatal advisories recorded during mapping, by kind.",
		}, []string{"kind"}),
		Upserts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_import_upserts_total",
			Help: "Tasks accepted by the grading API, by action.",
		}, []string{"action"}),
	}
}

// Row outcome labels. Upserts are labeled with the action string the
// grading API reports, so they need no constants here.
const (
	StatusMapped  = "mapped"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)
