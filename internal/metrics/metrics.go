package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerativeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replydraft_generative_requests_total",
			Help: "Generative capability calls by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	GenerativeRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "replydraft_generative_request_duration_seconds",
			Help:    "Generative capability call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"provider"},
	)

	ResponsesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replydraft_responses_generated_total",
			Help: "Drafts produced by the pipeline, by path (template or scratch)",
		},
		[]string{"path", "response_type"},
	)

	PipelineFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replydraft_pipeline_failures_total",
			Help: "Pipeline runs that ended without a draft",
		},
		[]string{"stage"},
	)

	StageFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replydraft_stage_fallbacks_total",
			Help: "Generative stages that fell back to their input",
		},
		[]string{"stage"},
	)

	TemplateOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replydraft_template_outcomes_total",
			Help: "Recorded template outcomes",
		},
		[]string{"result"},
	)

	QualityOverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "replydraft_quality_overall_score",
			Help:    "Overall heuristic quality score of scored drafts",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	LowQualityDraftsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replydraft_low_quality_drafts_total",
			Help: "Drafts scored below the configured warning threshold",
		},
	)
)
