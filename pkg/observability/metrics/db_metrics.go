package metrics

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func registerDBMetrics(db *sql.DB, logger zerolog.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "runs_recorded",
			Help: "Analysis runs kept in run history",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM analysis_runs")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "runs_failed",
			Help: "Failed analysis runs kept in run history",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM analysis_runs WHERE status = 'failed'")
		},
	))
}

func queryCount(db *sql.DB, logger zerolog.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		logger.Warn().Err(err).Msg("metrics query failed")
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
