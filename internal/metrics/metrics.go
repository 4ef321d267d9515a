package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StorageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_uploads_total",
			Help: "Total number of object uploads.",
		},
		[]string{"bucket", "result"},
	)

	StorageCompensationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_compensations_total",
			Help: "Total number of uploaded objects removed after a failed workflow.",
		},
		[]string{"bucket", "result"},
	)

	PasswordResetEmailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "password_reset_emails_total",
			Help: "Total number of password reset emails processed by the worker.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			StorageUploadsTotal,
			StorageCompensationsTotal,
			PasswordResetEmailsTotal,
		)
	})
}
