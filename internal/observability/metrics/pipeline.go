package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PipelineMetrics struct {
	registry *prometheus.Registry

	answerTotal     *prometheus.CounterVec
	answerDuration  *prometheus.HistogramVec
	retrievedChunks prometheus.Histogram
	ingestFiles     *prometheus.CounterVec
	benchCells      *prometheus.CounterVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	answerTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "pipeline",
			Name:      "answer_total",
			Help:      "Total answered questions by mode and status.",
		},
		[]string{"service", "mode", "status"},
	)
	answerDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Subsystem: "pipeline",
			Name:      "answer_duration_seconds",
			Help:      "Full retrieve+generate duration in seconds by mode and status.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "mode", "status"},
	)
	retrievedChunks := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docchat",
			Subsystem: "pipeline",
			Name:      "retrieved_chunks",
			Help:      "Number of chunks retrieved per question.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	ingestFiles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "ingest",
			Name:      "files_total",
			Help:      "Total ingested corpus files by status.",
		},
		[]string{"service", "status"},
	)
	benchCells := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docchat",
			Subsystem: "bench",
			Name:      "cells_total",
			Help:      "Total benchmark cells by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(answerTotal, answerDuration, retrievedChunks, ingestFiles, benchCells)

	return &PipelineMetrics{
		registry:        registry,
		answerTotal:     answerTotal,
		answerDuration:  answerDuration,
		retrievedChunks: retrievedChunks,
		ingestFiles:     ingestFiles,
		benchCells:      benchCells,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) ObserveAnswer(service, mode string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.answerTotal.WithLabelValues(service, mode, status).Inc()
	m.answerDuration.WithLabelValues(service, mode, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveRetrieval(chunks int) {
	if m == nil {
		return
	}
	m.retrievedChunks.Observe(float64(chunks))
}

func (m *PipelineMetrics) CountIngestedFile(service string, failed bool) {
	if m == nil {
		return
	}
	status := "loaded"
	if failed {
		status = "failed"
	}
	m.ingestFiles.WithLabelValues(service, status).Inc()
}

func (m *PipelineMetrics) CountBenchCell(service string, failed bool) {
	if m == nil {
		return
	}
	status := "success"
	if failed {
		status = "error"
	}
	m.benchCells.WithLabelValues(service, status).Inc()
}
