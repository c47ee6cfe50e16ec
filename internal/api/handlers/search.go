package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/foresight/internal/data"
	"github.com/wonny/foresight/internal/search"
	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/logger"
)

// SeriesLoader provides the observation series a triggered run evaluates.
type SeriesLoader func(ctx context.Context) (*data.Series, error)

// SearchHandler handles model-search API endpoints
// ⭐ SSOT: 탐색 API 핸들러는 이 구조체에서만
type SearchHandler struct {
	service    *search.Service
	repo       *search.Repository
	loadSeries SeriesLoader
	cfg        *config.Config
	logger     *logger.Logger
	progress   search.ProgressSink
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(
	service *search.Service,
	repo *search.Repository,
	loadSeries SeriesLoader,
	cfg *config.Config,
	log *logger.Logger,
) *SearchHandler {
	return &SearchHandler{
		service:    service,
		repo:       repo,
		loadSeries: loadSeries,
		cfg:        cfg,
		logger:     log,
	}
}

// WithProgress attaches a per-configuration progress sink to triggered runs.
func (h *SearchHandler) WithProgress(sink search.ProgressSink) *SearchHandler {
	h.progress = sink
	return h
}

// GetRuns returns recent search runs.
// GET /api/search/runs
func (h *SearchHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repo.GetRuns(r.Context(), 20)
	if err != nil {
		h.logger.WithError(err).Error("failed to load search runs")
		writeError(w, http.StatusInternalServerError, "failed to load runs")
		return
	}

	writeJSON(w, runs)
}

// GetResults returns the top-ranked results of one run.
// GET /api/search/runs/{id}/results?limit=N
func (h *SearchHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	limit := h.cfg.Search.TopK
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	results, err := h.repo.GetTopResults(r.Context(), runID, limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to load search results")
		writeError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	writeJSON(w, results)
}

// triggerRequest is the optional body of a run trigger.
type triggerRequest struct {
	NTest    *int  `json:"n_test"`
	Parallel *bool `json:"parallel"`
}

// TriggerRun loads the configured series and runs a full search.
// POST /api/search/run
func (h *SearchHandler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	nTest := h.cfg.Search.NTest
	parallel := h.cfg.Search.Parallel

	if r.Body != nil {
		var req triggerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			if req.NTest != nil {
				nTest = *req.NTest
			}
			if req.Parallel != nil {
				parallel = *req.Parallel
			}
		}
	}

	series, err := h.loadSeries(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load series")
		writeError(w, http.StatusInternalServerError, "failed to load series")
		return
	}

	opts := search.Options{
		Parallel: parallel,
		Workers:  h.cfg.Search.Workers,
		Progress: h.progress,
	}

	run, ranked, err := h.service.Run(r.Context(), series, nTest, nil, opts)
	if err != nil {
		if search.IsInsufficientData(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err == search.ErrEmptyResult {
			// 후보 전원이 실패한 경우, 성공처럼 보이면 안 됨
			writeError(w, http.StatusUnprocessableEntity, "no valid model found")
			return
		}
		h.logger.WithError(err).Error("search run failed")
		writeError(w, http.StatusInternalServerError, "search run failed")
		return
	}

	top := ranked
	if len(top) > h.cfg.Search.TopK {
		top = top[:h.cfg.Search.TopK]
	}

	type rankedItem struct {
		Config string  `json:"config"`
		RMSE   float64 `json:"rmse"`
	}
	items := make([]rankedItem, 0, len(top))
	for _, s := range top {
		items = append(items, rankedItem{Config: s.Config.String(), RMSE: s.RMSE})
	}

	writeJSON(w, map[string]interface{}{
		"run_id":     run.ID,
		"candidates": run.Candidates,
		"ranked":     run.Ranked,
		"top":        items,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
