// Package metrics собирает метрики конвейеров и HTTP-сервера для Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cable-inspector/internal/domain/entity"
)

const (
	PipelineMeasure = "measure"
	PipelineDefects = "defects"
)

var (
	pipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cable_pipeline_duration_seconds",
		Help:    "Duration of image analysis pipelines.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"pipeline"})
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cable_pipeline_runs_total",
		Help: "Number of pipeline runs by outcome.",
	}, []string{"pipeline", "outcome"})
	defectsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cable_defects_total",
		Help: "Number of classified defects.",
	}, []string{"class"})
	rowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cable_measurement_rows_skipped_total",
		Help: "Measurement rows without foreground pixels.",
	})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_response_time_seconds",
		Help: "Duration of HTTP requests.",
	}, []string{"path"})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of HTTP requests.",
	}, []string{"path"})
)

// ObservePipeline записывает длительность и исход запуска конвейера.
func ObservePipeline(pipeline string, started time.Time, err error) {
	pipelineDuration.WithLabelValues(pipeline).Observe(time.Since(started).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	pipelineRuns.WithLabelValues(pipeline, outcome).Inc()
}

// CountDefects увеличивает счётчики по классам дефектов.
func CountDefects(regions []entity.DefectRegion) {
	for _, r := range regions {
		defectsFound.WithLabelValues(r.Class.String()).Inc()
	}
}

// CountSkippedRows учитывает строки, на которых кабель не найден.
func CountSkippedRows(n int) {
	if n > 0 {
		rowsSkipped.Add(float64(n))
	}
}

// ObserveHTTP записывает длительность HTTP-запроса.
func ObserveHTTP(path string, duration time.Duration) {
	httpDuration.WithLabelValues(path).Observe(duration.Seconds())
	httpRequests.WithLabelValues(path).Inc()
}
