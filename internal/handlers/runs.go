package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"tour-planner/internal/models"
)

// RunSummary is a run without its route and per-generation statistics
type RunSummary struct {
	ID           string           `json:"id"`
	PointSetID   *int64           `json:"point_set_id,omitempty"`
	PointCount   int              `json:"point_count"`
	Params       models.RunParams `json:"params"`
	BestDistance float64          `json:"best_distance"`
	Evaluations  int              `json:"evaluations"`
	DurationMs   int64            `json:"duration_ms"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RunListResponse represents the paginated list response
type RunListResponse struct {
	Runs   []RunSummary `json:"runs"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

func parseRunID(r *http.Request) (string, error) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if _, err := uuid.Parse(id); err != nil {
		return "", err
	}
	return id, nil
}

// HandleListRuns handles GET /api/v1/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	log.Printf("[HTTP] GET /api/v1/runs: limit=%d offset=%d", limit, offset)
	runs, total, err := h.DB.Runs().List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("[ERROR] Failed to list runs: limit=%d offset=%d err=%v", limit, offset, err)
		h.handleInternalError(w, err)
		return
	}

	summaries := lo.Map(runs, func(run models.Run, _ int) RunSummary {
		return RunSummary{
			ID:           run.ID,
			PointSetID:   run.PointSetID,
			PointCount:   run.PointCount,
			Params:       run.Params,
			BestDistance: run.BestDistance,
			Evaluations:  run.Evaluations,
			DurationMs:   run.DurationMs,
			CreatedAt:    run.CreatedAt,
		}
	})

	log.Printf("[HTTP] Listed runs: count=%d total=%d", len(summaries), total)
	h.writeJSON(w, http.StatusOK, RunListResponse{
		Runs:   summaries,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleGetRun handles GET /api/v1/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := parseRunID(r)
	if err != nil {
		log.Printf("[HTTP] GET /api/v1/runs/{id}: invalid_id err=%v", err)
		h.handleValidationError(w, "Invalid run ID")
		return
	}

	run, err := h.DB.Runs().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("[ERROR] Failed to get run: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}
	if run == nil {
		log.Printf("[HTTP] Run not found: id=%s", id)
		h.handleNotFound(w, "Run not found")
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleDeleteRun handles DELETE /api/v1/runs/{id}
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := parseRunID(r)
	if err != nil {
		log.Printf("[HTTP] DELETE /api/v1/runs/{id}: invalid_id err=%v", err)
		h.handleValidationError(w, "Invalid run ID")
		return
	}

	if err := h.DB.Runs().Delete(r.Context(), id); err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Run not found")
			return
		}
		log.Printf("[ERROR] Failed to delete run: id=%s err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Deleted run: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
