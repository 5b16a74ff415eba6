package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scenario_generations_total",
			Help: "Total number of scenario generation attempts by provider and result.",
		},
		[]string{"provider", "result"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scenario_generation_duration_seconds",
			Help:    "Duration of calls to the generation service.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	flaggedScenariosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenario_generated_flagged_total",
		Help: "Generated scenarios accepted with a correct-choice count other than one.",
	})
)
