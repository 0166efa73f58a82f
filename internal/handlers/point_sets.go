package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"tour-planner/internal/models"
)

// PointSetListResponse represents the list response
type PointSetListResponse struct {
	PointSets []models.PointSet `json:"point_sets"`
	Total     int               `json:"total"`
}

type pointSetRequest struct {
	Name   string         `json:"name"`
	Points []models.Point `json:"points"`
}

// validate returns a user-facing message, or "" when the request is usable
func (req *pointSetRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "Name is required"
	}
	if len(req.Points) == 0 {
		return "At least one point is required"
	}
	if _, idx, found := lo.FindIndexOf(req.Points, func(p models.Point) bool { return !p.IsFinite() }); found {
		return "Point " + strconv.Itoa(idx) + " has a non-finite coordinate"
	}
	return ""
}

func parsePointSetID(r *http.Request) (int64, error) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/point-sets/")
	return strconv.ParseInt(idStr, 10, 64)
}

// HandleListPointSets handles GET /api/v1/point-sets
func (h *Handler) HandleListPointSets(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	log.Printf("[HTTP] GET /api/v1/point-sets: search=%s", search)

	sets, err := h.DB.PointSets().List(r.Context(), search)
	if err != nil {
		log.Printf("[ERROR] Failed to list point sets: search=%s err=%v", search, err)
		h.handleInternalError(w, err)
		return
	}
	if sets == nil {
		sets = []models.PointSet{}
	}

	log.Printf("[HTTP] Listed point sets: count=%d", len(sets))
	h.writeJSON(w, http.StatusOK, PointSetListResponse{
		PointSets: sets,
		Total:     len(sets),
	})
}

// HandleGetPointSet handles GET /api/v1/point-sets/{id}
func (h *Handler) HandleGetPointSet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePointSetID(r)
	if err != nil {
		log.Printf("[HTTP] GET /api/v1/point-sets/{id}: invalid_id err=%v", err)
		h.handleValidationError(w, "Invalid point set ID")
		return
	}

	ps, err := h.DB.PointSets().GetByID(r.Context(), id)
	if err != nil {
		log.Printf("[ERROR] Failed to get point set: id=%d err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}
	if ps == nil {
		log.Printf("[HTTP] Point set not found: id=%d", id)
		h.handleNotFound(w, "Point set not found")
		return
	}

	h.writeJSON(w, http.StatusOK, ps)
}

// HandleCreatePointSet handles POST /api/v1/point-sets
func (h *Handler) HandleCreatePointSet(w http.ResponseWriter, r *http.Request) {
	var req pointSetRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] POST /api/v1/point-sets: invalid_body err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		log.Printf("[HTTP] POST /api/v1/point-sets: validation_failed reason=%s", msg)
		h.handleValidationError(w, msg)
		return
	}

	ps, err := h.DB.PointSets().Create(r.Context(), &models.PointSet{Name: req.Name, Points: req.Points})
	if err != nil {
		log.Printf("[ERROR] Failed to create point set: name=%s err=%v", req.Name, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Created point set: id=%d name=%s points=%d", ps.ID, ps.Name, len(ps.Points))
	h.writeJSON(w, http.StatusCreated, ps)
}

// HandleUpdatePointSet handles PUT /api/v1/point-sets/{id}
func (h *Handler) HandleUpdatePointSet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePointSetID(r)
	if err != nil {
		log.Printf("[HTTP] PUT /api/v1/point-sets/{id}: invalid_id err=%v", err)
		h.handleValidationError(w, "Invalid point set ID")
		return
	}

	var req pointSetRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] PUT /api/v1/point-sets/{id}: invalid_body id=%d err=%v", id, err)
		h.handleValidationError(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		h.handleValidationError(w, msg)
		return
	}

	ps, err := h.DB.PointSets().Update(r.Context(), &models.PointSet{ID: id, Name: req.Name, Points: req.Points})
	if err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Point set not found")
			return
		}
		log.Printf("[ERROR] Failed to update point set: id=%d err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Updated point set: id=%d points=%d", ps.ID, len(ps.Points))
	h.writeJSON(w, http.StatusOK, ps)
}

// HandleDeletePointSet handles DELETE /api/v1/point-sets/{id}
func (h *Handler) HandleDeletePointSet(w http.ResponseWriter, r *http.Request) {
	id, err := parsePointSetID(r)
	if err != nil {
		log.Printf("[HTTP] DELETE /api/v1/point-sets/{id}: invalid_id err=%v", err)
		h.handleValidationError(w, "Invalid point set ID")
		return
	}

	if err := h.DB.PointSets().Delete(r.Context(), id); err != nil {
		if h.checkNotFound(err) {
			h.handleNotFound(w, "Point set not found")
			return
		}
		log.Printf("[ERROR] Failed to delete point set: id=%d err=%v", id, err)
		h.handleInternalError(w, err)
		return
	}

	log.Printf("[HTTP] Deleted point set: id=%d", id)
	w.WriteHeader(http.StatusNoContent)
}
