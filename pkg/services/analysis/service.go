package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/variation-atlas/pkg/adapters"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/observability/metrics"
	"github.com/de-tools/variation-atlas/pkg/services/ingest"
	"github.com/de-tools/variation-atlas/pkg/services/report"
	"github.com/de-tools/variation-atlas/pkg/store/blob"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb/runs"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidRequest = errors.New("invalid analysis request")
	ErrNoBlobStore    = errors.New("no blob store configured")
)

type Service interface {
	// Analyze fetches the workbook stored under req.SourceKey and analyses it.
	Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisOutcome, error)
	// AnalyzeBytes analyses a workbook payload received directly, e.g. an upload.
	AnalyzeBytes(ctx context.Context, name string, payload []byte, startDate, endDate string) (*domain.AnalysisOutcome, error)
}

type Options struct {
	Blobs blob.Store
	Runs  runs.Store // optional, runs are not recorded without it
	Now   func() time.Time
	NewID func() string
}

type service struct {
	blobs blob.Store
	runs  runs.Store
	now   func() time.Time
	newID func() string
}

func NewService(opts Options) Service {
	s := &service{
		blobs: opts.Blobs,
		runs:  opts.Runs,
		now:   opts.Now,
		newID: opts.NewID,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

func (s *service) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisOutcome, error) {
	if req.SourceKey == "" {
		return nil, fmt.Errorf("%w: file path is required", ErrInvalidRequest)
	}
	if s.blobs == nil {
		return nil, ErrNoBlobStore
	}

	started := time.Now()
	payload, err := s.blobs.Get(ctx, req.SourceKey)
	if err != nil {
		err = fmt.Errorf("failed to fetch %s: %w", req.SourceKey, err)
		s.fail(ctx, metrics.SourceStore, req, err, started)
		return nil, err
	}

	return s.process(ctx, metrics.SourceStore, req, payload, started)
}

func (s *service) AnalyzeBytes(
	ctx context.Context,
	name string,
	payload []byte,
	startDate, endDate string,
) (*domain.AnalysisOutcome, error) {
	req := domain.AnalysisRequest{SourceKey: name, StartDate: startDate, EndDate: endDate}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidRequest)
	}
	return s.process(ctx, metrics.SourceUpload, req, payload, time.Now())
}

func (s *service) process(
	ctx context.Context,
	source string,
	req domain.AnalysisRequest,
	payload []byte,
	started time.Time,
) (*domain.AnalysisOutcome, error) {
	logger := zerolog.Ctx(ctx)
	metrics.ObservePayload(len(payload))

	table, err := ingest.ReadWorkbook(bytes.NewReader(payload))
	if err != nil {
		err = fmt.Errorf("failed to read %s: %w", req.SourceKey, err)
		s.fail(ctx, source, req, err, started)
		return nil, err
	}
	records, err := ingest.Records(ctx, table)
	if err != nil {
		err = fmt.Errorf("failed to read %s: %w", req.SourceKey, err)
		s.fail(ctx, source, req, err, started)
		return nil, err
	}
	metrics.AddRows(len(records), len(table.Rows)-len(records))

	result := Rank(Aggregate(records), req.StartDate, req.EndDate)
	text, err := report.RenderMarkdown(result)
	if err != nil {
		s.fail(ctx, source, req, err, started)
		return nil, err
	}

	outcome := &domain.AnalysisOutcome{
		RunID:  s.newID(),
		Result: result,
		Report: text,
		Charts: report.BuildChartData(result),
	}

	run := s.newRun(outcome.RunID, req, domain.RunStatusSucceeded)
	run.Products = len(result.AllProducts)
	run.Variations = len(records)
	for _, p := range result.AllProducts {
		run.TotalUnits += p.TotalUnitsSold
	}
	s.record(ctx, run)

	metrics.ObserveAnalysis(source, metrics.ResultSuccess, time.Since(started))
	logger.Info().
		Str("run_id", outcome.RunID).
		Str("source", req.SourceKey).
		Str("size", humanize.Bytes(uint64(len(payload)))).
		Int("products", run.Products).
		Int("variations", run.Variations).
		Dur("took", time.Since(started)).
		Msg("analysis finished")

	return outcome, nil
}

func (s *service) newRun(id string, req domain.AnalysisRequest, status domain.RunStatus) domain.AnalysisRun {
	return domain.AnalysisRun{
		ID:        id,
		SourceKey: req.SourceKey,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    status,
		CreatedAt: s.now(),
	}
}

func (s *service) fail(ctx context.Context, source string, req domain.AnalysisRequest, cause error, started time.Time) {
	metrics.ObserveAnalysis(source, metrics.ResultError, time.Since(started))
	zerolog.Ctx(ctx).Error().Err(cause).Str("source", req.SourceKey).Msg("analysis failed")

	run := s.newRun(s.newID(), req, domain.RunStatusFailed)
	msg := cause.Error()
	run.Error = &msg
	s.record(ctx, run)
}

// record stores run in history. Failing to do so never fails the analysis.
func (s *service) record(ctx context.Context, run domain.AnalysisRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Add(ctx, adapters.MapDomainRunToStore(run)); err != nil {
		metrics.IncRunRecordError()
		zerolog.Ctx(ctx).Warn().Err(err).Str("run_id", run.ID).Msg("failed to record analysis run")
	}
}
