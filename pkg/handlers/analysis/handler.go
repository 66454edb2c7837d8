package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/variation-atlas/pkg/adapters"
	"github.com/de-tools/variation-atlas/pkg/models/api"
	"github.com/de-tools/variation-atlas/pkg/models/domain"
	"github.com/de-tools/variation-atlas/pkg/services/analysis"
	"github.com/de-tools/variation-atlas/pkg/services/ingest"
	"github.com/de-tools/variation-atlas/pkg/store/blob"
	"github.com/de-tools/variation-atlas/pkg/store/duckdb/runs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultMaxUpload = 20 << 20
	uploadPrefix     = "uploads"
)

type Handler struct {
	svc       analysis.Service
	blobs     blob.Store
	runs      runs.Store
	maxUpload int64
	now       func() time.Time
}

// NewHandler wires the analysis endpoints. blobs and runStore may be nil: uploads are
// then analysed without being stored and run history endpoints answer 503.
func NewHandler(svc analysis.Service, blobs blob.Store, runStore runs.Store, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Handler{
		svc:       svc,
		blobs:     blobs,
		runs:      runStore,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.AnalysisRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("filePath is required"))
		return
	}

	outcome, err := h.svc.Analyze(ctx, domain.AnalysisRequest{
		SourceKey: req.FilePath,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	resp := adapters.MapOutcomeToAPI(outcome)
	resp.SourceKey = req.FilePath
	writeJSON(w, r, http.StatusOK, resp)
}

// Upload analyses a workbook sent as multipart form field "file". When a blob store is
// configured the payload is kept under uploads/<unix millis>-<file name>.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", h.maxUpload))
			return
		}
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("form field file is required: %w", err))
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	name := uploadName(header.Filename)
	key := fmt.Sprintf("%s/%d-%s", uploadPrefix, h.now().UnixMilli(), name)
	if h.blobs != nil {
		if err := h.blobs.Put(ctx, key, payload); err != nil {
			writeError(w, r, http.StatusInternalServerError, fmt.Errorf("failed to store upload: %w", err))
			return
		}
		logger.Debug().Str("key", key).Int("bytes", len(payload)).Msg("stored upload")
	} else {
		key = name
	}

	outcome, err := h.svc.AnalyzeBytes(ctx, key, payload, r.FormValue("startDate"), r.FormValue("endDate"))
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}

	resp := adapters.MapOutcomeToAPI(outcome)
	if h.blobs != nil {
		resp.SourceKey = key
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, r, http.StatusServiceUnavailable, errors.New("run history is not configured"))
		return
	}

	limit := runs.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	stored, err := h.runs.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	response := make([]api.AnalysisRun, 0, len(stored))
	for i := range stored {
		response = append(response, adapters.MapDomainRunToAPI(*adapters.MapStoreRunToDomain(&stored[i])))
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, r, http.StatusServiceUnavailable, errors.New("run history is not configured"))
		return
	}

	id := chi.URLParam(r, "id")
	stored, err := h.runs.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, statusFor(err), err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainRunToAPI(*adapters.MapStoreRunToDomain(stored)))
}

func (h *Handler) ListColumns(w http.ResponseWriter, r *http.Request) {
	columns := make([]api.Column, 0, len(ingest.Columns))
	for _, c := range ingest.Columns {
		columns = append(columns, api.Column{Name: c, Required: true})
	}
	writeJSON(w, r, http.StatusOK, columns)
}

func uploadName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload.xlsx"
	}
	return name
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, blob.ErrNotFound), errors.Is(err, runs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrInvalidRequest), errors.Is(err, blob.ErrInvalidKey):
		return http.StatusBadRequest
	case ingest.IsInvalidInput(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrNoBlobStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, r, status, api.AnalysisResponse{Success: false, Error: err.Error()})
}
