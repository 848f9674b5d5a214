package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics
var (
	leaveSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_leave_submissions_total",
		Help: "Accepted leave submissions",
	}, []string{"result"})

	leaveDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_leave_decisions_total",
		Help: "Admin approve/reject decisions",
	}, []string{"status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lms_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})
)
