package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the kiosk
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Scanner Metrics
	ScansTotal prometheus.CounterVec

	// Session Metrics
	UnlocksTotal        prometheus.CounterVec
	FailedUnlocksTotal  prometheus.CounterVec
	SessionUnlocked     prometheus.Gauge

	// Check-in Metrics
	CheckinsCommittedTotal prometheus.CounterVec
	CheckinsRejectedTotal  prometheus.CounterVec
	NotificationsTotal     prometheus.CounterVec

	// Roster Metrics
	RosterSize        prometheus.Gauge
	RangeOfficerCount prometheus.Gauge
	SyncJobDuration   prometheus.HistogramVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rangekiosk_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rangekiosk_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		ScansTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_scans_total",
				Help: "Total classified scan lines by token kind",
			},
			[]string{"kind"},
		),

		UnlocksTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_unlocks_total",
				Help: "Total successful session unlocks by method",
			},
			[]string{"method"},
		),
		FailedUnlocksTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_failed_unlocks_total",
				Help: "Total rejected unlock attempts by reason",
			},
			[]string{"reason"},
		),
		SessionUnlocked: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rangekiosk_session_unlocked",
				Help: "1 while the session lock is open, 0 otherwise",
			},
		),

		CheckinsCommittedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_checkins_committed_total",
				Help: "Total check-ins committed to the ledger by participation type",
			},
			[]string{"participation_type"},
		),
		CheckinsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_checkins_rejected_total",
				Help: "Total rejected check-in transitions by reason",
			},
			[]string{"reason"},
		),
		NotificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rangekiosk_notifications_total",
				Help: "Total confirmation notifications by outcome",
			},
			[]string{"outcome"},
		),

		RosterSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rangekiosk_roster_size",
				Help: "Members in the current roster snapshot",
			},
		),
		RangeOfficerCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "rangekiosk_range_officer_count",
				Help: "Range officers in the current roster snapshot",
			},
		),
		SyncJobDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rangekiosk_sync_job_duration_seconds",
				Help:    "Roster sync execution time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"job_name"},
		),
	}
}
