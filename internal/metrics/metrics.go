package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foxclub_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foxclub_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AnswersSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foxclub_form_answers_saved_total",
		Help: "Form answers written through upsert.",
	})

	FormsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foxclub_forms_submitted_total",
		Help: "Forms moved to the submitted state.",
	})

	// result is "success" or "failure".
	AuthLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foxclub_auth_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)
