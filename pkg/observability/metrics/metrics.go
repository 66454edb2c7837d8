package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	metricPrefix = "atlas_"

	resultSuccess = "success"
	resultError   = "error"
)

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	SourceStore  = "store"
	SourceUpload = "upload"
)

var (
	registerOnce sync.Once

	analysisTotal   *prometheus.CounterVec
	analysisLatency *prometheus.HistogramVec
	rowsExtracted   *prometheus.CounterVec
	payloadBytes    prometheus.Histogram

	exportTotal     *prometheus.CounterVec
	runRecordErrors prometheus.Counter
)

// Init registers the analysis collectors and, when db is set, the run history gauges.
func Init(db *sql.DB, logger zerolog.Logger) {
	registerOnce.Do(func() {
		analysisTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analysis_total",
				Help: "Total spreadsheet analyses by source and result",
			},
			[]string{"source", "result"},
		)
		analysisLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "analysis_latency_seconds",
				Help:    "Spreadsheet analysis latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "result"},
		)
		rowsExtracted = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_total",
				Help: "Spreadsheet rows by outcome",
			},
			[]string{"outcome"},
		)
		payloadBytes = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "payload_bytes",
				Help:    "Size of analysed workbooks in bytes",
				Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
			},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		runRecordErrors = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "run_record_errors_total",
				Help: "Analysis runs that could not be written to run history",
			},
		)

		prometheus.MustRegister(
			analysisTotal,
			analysisLatency,
			rowsExtracted,
			payloadBytes,
			exportTotal,
			runRecordErrors,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveAnalysis records analysis duration and result.
func ObserveAnalysis(source, result string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if analysisTotal != nil {
		analysisTotal.WithLabelValues(source, result).Inc()
	}
	if analysisLatency != nil {
		analysisLatency.WithLabelValues(source, result).Observe(duration.Seconds())
	}
}

// AddRows counts extracted variation rows and skipped rows.
func AddRows(extracted, skipped int) {
	if rowsExtracted == nil {
		return
	}
	if extracted > 0 {
		rowsExtracted.WithLabelValues("extracted").Add(float64(extracted))
	}
	if skipped > 0 {
		rowsExtracted.WithLabelValues("skipped").Add(float64(skipped))
	}
}

func ObservePayload(size int) {
	if payloadBytes != nil && size >= 0 {
		payloadBytes.Observe(float64(size))
	}
}

// IncExport increments the export counter.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

func IncRunRecordError() {
	if runRecordErrors != nil {
		runRecordErrors.Inc()
	}
}
