// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_matcher_analyses_total",
			Help: "Total number of analyses by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resume_matcher_analysis_duration_seconds",
			Help:    "Duration of an analysis in seconds, cosmetic delay included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	OverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resume_matcher_overall_score",
			Help:    "Distribution of overall match scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	ResumeExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_matcher_resume_extractions_total",
			Help: "Total number of resume text extractions by document kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_matcher_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resume_matcher_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveAnalysis records one finished analysis. The score is only observed on success.
func ObserveAnalysis(source, outcome string, elapsed time.Duration, overall int) {
	AnalysesTotal.WithLabelValues(source, outcome).Inc()
	AnalysisDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		OverallScore.Observe(float64(overall))
	}
}
