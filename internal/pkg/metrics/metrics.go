// Package metrics holds the Prometheus metrics of the reporting engine.
// Everything is registered on Registry, which the HTTP router exposes at
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the application
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// =============================================================================
// REPORT GENERATION
// =============================================================================

// ReportDurationSeconds tracks report generation time by kind (agent, global).
var ReportDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "outshift",
	Name:      "report_duration_seconds",
	Help:      "Time taken to generate an outshift report",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
}, []string{"kind"})

// ReportErrorsTotal counts failed report generations by kind.
var ReportErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "outshift",
	Name:      "report_errors_total",
	Help:      "Total outshift report generations that failed",
}, []string{"kind"})

// ClassifiedMinutesTotal counts activity minutes by classification.
var ClassifiedMinutesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "outshift",
	Name:      "classified_minutes_total",
	Help:      "Activity minutes classified as in_shift or out_shift",
}, []string{"classification"})

// SegmentsProcessedTotal counts merged activity segments fed to the splitter.
var SegmentsProcessedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "outshift",
	Name:      "segments_processed_total",
	Help:      "Merged activity segments classified against working hours",
})

// MalformedWorkingHoursTotal counts working-hours problems found while
// building reports, by reason.
var MalformedWorkingHoursTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "outshift",
	Name:      "malformed_working_hours_total",
	Help:      "Working-hours entries that were skipped or fell back to a default",
}, []string{"reason"})

// =============================================================================
// FLEET SNAPSHOT
// =============================================================================

// FleetAgents tracks the agents of the last snapshot by state
// (total, with_activity, with_outshift).
var FleetAgents = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "outshift",
	Subsystem: "fleet",
	Name:      "agents",
	Help:      "Agents in the last fleet snapshot by state",
}, []string{"state"})

// FleetMinutes tracks activity minutes of the last snapshot by
// classification (total, in_shift, out_shift).
var FleetMinutes = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "outshift",
	Subsystem: "fleet",
	Name:      "minutes",
	Help:      "Activity minutes in the last fleet snapshot",
}, []string{"classification"})

// FleetOutShiftPercentage tracks the overall out-shift percentage of the
// last snapshot.
var FleetOutShiftPercentage = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "outshift",
	Subsystem: "fleet",
	Name:      "out_shift_percentage",
	Help:      "Overall out-shift percentage in the last fleet snapshot",
})

// FleetSnapshotTimestamp is the unix time of the last successful snapshot.
var FleetSnapshotTimestamp = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "outshift",
	Subsystem: "fleet",
	Name:      "snapshot_timestamp_seconds",
	Help:      "Unix time of the last successful fleet snapshot",
})

// =============================================================================
// HTTP
// =============================================================================

// HTTPRequestsTotal counts handled requests by route pattern, method and
// status code.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by route, method and status",
}, []string{"route", "method", "status"})

// =============================================================================
// CRON
// =============================================================================

// CronRunsTotal counts scheduled job runs by job and result.
var CronRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cron",
	Name:      "runs_total",
	Help:      "Scheduled job runs by job name and result",
}, []string{"job", "result"})
