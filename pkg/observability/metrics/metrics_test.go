package metrics

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectors(t *testing.T) {
	Init(nil, zerolog.Nop())

	ObserveAnalysis(SourceUpload, ResultSuccess, 20*time.Millisecond)
	ObserveAnalysis(SourceUpload, "", time.Millisecond)
	ObserveAnalysis("", ResultError, time.Millisecond)
	AddRows(3, 2)
	AddRows(0, 0)
	IncExport("xlsx", ResultSuccess)
	IncExport("", ResultError)
	IncRunRecordError()

	assert.Equal(t, float64(2), testutil.ToFloat64(analysisTotal.WithLabelValues(SourceUpload, ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(analysisTotal.WithLabelValues("unknown", ResultError)))
	assert.Equal(t, float64(3), testutil.ToFloat64(rowsExtracted.WithLabelValues("extracted")))
	assert.Equal(t, float64(2), testutil.ToFloat64(rowsExtracted.WithLabelValues("skipped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(exportTotal.WithLabelValues("unknown", ResultError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(runRecordErrors))
}

func TestQueryCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT COUNT").WillReturnError(assert.AnError)

	assert.Equal(t, float64(7), queryCount(db, zerolog.Nop(), "SELECT COUNT(*) FROM analysis_runs"))
	assert.Equal(t, float64(0), queryCount(db, zerolog.Nop(), "SELECT COUNT(*) FROM analysis_runs"))
	assert.Equal(t, float64(0), queryCount(nil, zerolog.Nop(), "SELECT 1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
