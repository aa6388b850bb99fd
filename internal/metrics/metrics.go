package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_portal_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "health_portal_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Chat pipeline
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_portal_chat_turns_total",
			Help: "Chat turns by outcome",
		},
		[]string{"outcome"}, // "ok", "rejected", "generation_failed", "hydration_failed"
	)

	LLMLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "health_portal_llm_latency_seconds",
			Help:    "LLM call latency",
			Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"purpose"}, // "chat", "report_summary", "report_explain"
	)

	StmLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_portal_stm_lookups_total",
			Help: "Short-term memory lookups by result",
		},
		[]string{"result"}, // "hit", "hydrated"
	)

	StmEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "health_portal_stm_entries",
			Help: "Conversations currently held in short-term memory",
		},
	)

	StmPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "health_portal_stm_persist_failures_total",
			Help: "Background message writes that failed",
		},
	)

	// Health records
	ReportsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_portal_reports_uploaded_total",
			Help: "Uploaded medical reports by summary outcome",
		},
		[]string{"summary"}, // "ai", "fallback"
	)

	AppointmentsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "health_portal_appointments_booked_total",
			Help: "Total appointments booked",
		},
	)

	RemindersDispatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "health_portal_reminders_dispatched_total",
			Help: "Due reminders turned into notifications",
		},
	)
)
