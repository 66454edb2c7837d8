package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/variation-atlas/pkg/models/api"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/models/store"
	"github.com/de-tools/variation-atlas/pkg/services/analysis"
	"github.com/de-tools/variation-atlas/pkg/services/ingest"
	"github.com/de-tools/variation-atlas/pkg/store/blob"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb/runs"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisOutcome), args.Error(1)
}

func (m *mockService) AnalyzeBytes(
	ctx context.Context,
	name string,
	payload []byte,
	startDate, endDate string,
) (*domain.AnalysisOutcome, error) {
	args := m.Called(ctx, name, payload, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisOutcome), args.Error(1)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockBlobStore) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

type mockRunStore struct {
	mock.Mock
}

func (m *mockRunStore) Add(ctx context.Context, run store.AnalysisRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunStore) List(ctx context.Context, limit int) ([]store.AnalysisRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.AnalysisRun), args.Error(1)
}

func (m *mockRunStore) Get(ctx context.Context, id string) (*store.AnalysisRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AnalysisRun), args.Error(1)
}

func outcome() *domain.AnalysisOutcome {
	product := domain.ProductAggregate{
		ProductID:      "MLB1",
		ProductName:    "Camiseta",
		TotalUnitsSold: 10,
		Variations:     []domain.VariationRecord{{ProductID: "MLB1", VariationID: "v1", VariationName: "Azul", UnitsSold: 10}},
	}
	return &domain.AnalysisOutcome{
		RunID:  "run-1",
		Result: domain.ProcessingResult{StartDate: "s", EndDate: "e", AllProducts: []domain.ProductAggregate{product}, TopProducts: []domain.ProductAggregate{product}},
		Report: "# Relatório",
		Charts: domain.ChartData{Grouped: []domain.ChartSeries{}, Stacked: []domain.ChartSeries{}},
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) api.AnalysisResponse {
	t.Helper()
	var resp api.AnalysisResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful response",
			body: `{"filePath":"uploads/jan.xlsx","startDate":"01/01/2024","endDate":"31/01/2024"}`,
			setupMock: func(m *mockService) {
				m.On("Analyze", mock.Anything, domain.AnalysisRequest{
					SourceKey: "uploads/jan.xlsx", StartDate: "01/01/2024", EndDate: "31/01/2024",
				}).Return(outcome(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed body",
			body:           `{"filePath":`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "missing file path",
			body:           `{"startDate":"01/01/2024"}`,
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "filePath is required",
		},
		{
			name: "file not found",
			body: `{"filePath":"gone.xlsx"}`,
			setupMock: func(m *mockService) {
				m.On("Analyze", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("failed to fetch gone.xlsx: %w", blob.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "blob not found",
		},
		{
			name: "missing column",
			body: `{"filePath":"bad.xlsx"}`,
			setupMock: func(m *mockService) {
				m.On("Analyze", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: \"Produto\"", ingest.ErrMissingColumn))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "Produto",
		},
		{
			name: "storage failure",
			body: `{"filePath":"a.xlsx"}`,
			setupMock: func(m *mockService) {
				m.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			tt.setupMock(svc)
			handler := NewHandler(svc, nil, nil, 0)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.Analyze(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			resp := decode(t, rec)
			if tt.expectedError == "" {
				assert.True(t, resp.Success)
				assert.Equal(t, "run-1", resp.RunID)
				assert.Equal(t, "uploads/jan.xlsx", resp.SourceKey)
				require.NotNil(t, resp.Data)
				assert.Equal(t, "MLB1", resp.Data.TopAnnouncements[0].ItemID)
				assert.Equal(t, "# Relatório", resp.Report)
			} else {
				assert.False(t, resp.Success)
				assert.Contains(t, resp.Error, tt.expectedError)
				assert.Nil(t, resp.Data)
			}
			svc.AssertExpectations(t)
		})
	}
}

func multipartBody(t *testing.T, filename string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	// Given
	svc := new(mockService)
	blobs := new(mockBlobStore)
	payload := []byte("xlsx-bytes")
	key := "uploads/1706745600000-vendas.xlsx"
	blobs.On("Put", mock.Anything, key, payload).Return(nil)
	svc.On("AnalyzeBytes", mock.Anything, key, payload, "01/01/2024", "31/01/2024").Return(outcome(), nil)

	handler := NewHandler(svc, blobs, nil, 1<<20)
	handler.now = func() time.Time { return time.UnixMilli(1706745600000) }

	body, contentType := multipartBody(t, `C:\exports\vendas.xlsx`, payload, map[string]string{
		"startDate": "01/01/2024",
		"endDate":   "31/01/2024",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	// When
	handler.Upload(rec, req)

	// Then
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, key, resp.SourceKey)
	svc.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestUpload_Rejections(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		handler := NewHandler(new(mockService), nil, nil, 1<<20)
		body, contentType := multipartBody(t, "", nil, map[string]string{"startDate": "x"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec).Error, "form field file is required")
	})

	t.Run("not multipart", func(t *testing.T) {
		handler := NewHandler(new(mockService), nil, nil, 1<<20)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Upload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		handler := NewHandler(new(mockService), nil, nil, 1024)
		body, contentType := multipartBody(t, "big.xlsx", bytes.Repeat([]byte("x"), 64<<10), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Upload(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		resp := decode(t, rec)
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "upload exceeds 1024 bytes")
	})

	t.Run("invalid workbook without blob store", func(t *testing.T) {
		svc := new(mockService)
		svc.On("AnalyzeBytes", mock.Anything, "notes.xlsx", []byte("junk"), "", "").
			Return(nil, fmt.Errorf("failed to read notes.xlsx: %w", ingest.ErrInvalidWorkbook))
		handler := NewHandler(svc, nil, nil, 1<<20)
		body, contentType := multipartBody(t, "notes.xlsx", []byte("junk"), nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Upload(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestListRuns(t *testing.T) {
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	msg := "missing expected column"
	runStore := new(mockRunStore)
	runStore.On("List", mock.Anything, 2).Return([]store.AnalysisRun{
		{ID: "r2", SourceKey: "b.xlsx", Status: "failed", Error: &msg, CreatedAt: created},
		{ID: "r1", SourceKey: "a.xlsx", Status: "succeeded", Products: 3, Variations: 9, TotalUnits: 42, CreatedAt: created},
	}, nil)
	handler := NewHandler(new(mockService), nil, runStore, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=2", nil)
	rec := httptest.NewRecorder()
	handler.ListRuns(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []api.AnalysisRun
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 2)
	assert.Equal(t, msg, response[0].Error)
	assert.Equal(t, 9, response[1].Variations)
	runStore.AssertExpectations(t)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=abc", nil)
	rec = httptest.NewRecorder()
	handler.ListRuns(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRun(t *testing.T) {
	runStore := new(mockRunStore)
	runStore.On("Get", mock.Anything, "r1").Return(&store.AnalysisRun{ID: "r1", Status: "succeeded"}, nil)
	runStore.On("Get", mock.Anything, "nope").Return(nil, fmt.Errorf("%w: nope", runs.ErrNotFound))
	handler := NewHandler(new(mockService), nil, runStore, 0)

	for id, status := range map[string]int{"r1": http.StatusOK, "nope": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+id, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		rec := httptest.NewRecorder()

		handler.GetRun(rec, req)

		assert.Equal(t, status, rec.Code, id)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	handler := NewHandler(new(mockService), nil, nil, 0)
	rec := httptest.NewRecorder()

	handler.ListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListColumns(t *testing.T) {
	handler := NewHandler(new(mockService), nil, nil, 0)
	rec := httptest.NewRecorder()

	handler.ListColumns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/columns", nil))

	var columns []api.Column
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&columns))
	require.Len(t, columns, len(ingest.Columns))
	assert.Equal(t, api.Column{Name: "ID do Item", Required: true}, columns[0])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", analysis.ErrInvalidRequest)))
	assert.Equal(t, http.StatusBadRequest, statusFor(blob.ErrInvalidKey))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(ingest.ErrNoSheets))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(analysis.ErrNoBlobStore))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
