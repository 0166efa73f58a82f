package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tour-planner/internal/genetic"
	"tour-planner/internal/models"
	"tour-planner/internal/routing"
)

// Request limits keep a single solve from exhausting the server
const (
	maxGenerations     = 100000
	maxPopulationSize  = 10000
	maxWorkers         = 64
	maxEvaluationSteps = 50000000 // population size times generations
)

// ConfigOverrides carries the solver parameters a request wants to change.
// Absent fields keep the server defaults.
type ConfigOverrides = models.RunOverrides

// SolveRequest names the points to tour, either inline or by stored set
type SolveRequest struct {
	PointSetID *int64           `json:"point_set_id,omitempty"`
	Points     []models.Point   `json:"points,omitempty"`
	Config     *ConfigOverrides `json:"config,omitempty"`
	Save       bool             `json:"save"`
}

// SolveResponse is the best tour found plus run metadata
type SolveResponse struct {
	RunID       string                   `json:"run_id,omitempty"`
	Tour        models.Tour              `json:"tour"`
	Path        []models.Point           `json:"path"`
	Generations []models.GenerationStats `json:"generations"`
	Seed        uint64                   `json:"seed"`
	Evaluations int                      `json:"evaluations"`
	Fallback    bool                     `json:"fallback"`
	DurationMs  int64                    `json:"duration_ms"`
}

// HandleSolve handles POST /api/v1/solve
func (h *Handler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		log.Printf("[HTTP] POST /api/v1/solve: invalid_body err=%v", err)
		h.handleValidationError(w, "Invalid request body")
		return
	}

	if (req.PointSetID == nil) == (len(req.Points) == 0) {
		h.handleValidationError(w, "Provide either point_set_id or points")
		return
	}

	points := req.Points
	if req.PointSetID != nil {
		ps, err := h.DB.PointSets().GetByID(r.Context(), *req.PointSetID)
		if err != nil {
			log.Printf("[ERROR] Failed to load point set: id=%d err=%v", *req.PointSetID, err)
			h.handleInternalError(w, err)
			return
		}
		if ps == nil {
			h.handleNotFound(w, "Point set not found")
			return
		}
		points = ps.Points
	}

	cfg, err := h.Defaults.WithOverrides(req.Config)
	if err != nil {
		h.handleConfigError(w, err)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[HTTP] POST /api/v1/solve: invalid_config err=%v", err)
		h.handleConfigError(w, err)
		return
	}
	if err := checkLimits(cfg); err != nil {
		log.Printf("[HTTP] POST /api/v1/solve: over_limit err=%v", err)
		h.handleConfigError(w, err)
		return
	}

	log.Printf("[HTTP] POST /api/v1/solve: points=%d generations=%d population=%d save=%t",
		len(points), cfg.Generations, cfg.PopulationSize, req.Save)

	result, err := h.Planner.Plan(r.Context(), &routing.PlanRequest{Points: points, Config: cfg})
	if err != nil {
		var planErr *routing.ErrPlanningFailed
		switch {
		case errors.As(err, &planErr):
			h.handleValidationError(w, planErr.Reason)
		case errors.Is(err, genetic.ErrInvalidConfiguration):
			h.handleConfigError(w, err)
		case errors.Is(err, context.Canceled):
			log.Printf("[HTTP] POST /api/v1/solve: client went away err=%v", err)
		default:
			log.Printf("[ERROR] Failed to solve: points=%d err=%v", len(points), err)
			h.handleInternalError(w, err)
		}
		return
	}

	resp := SolveResponse{
		Tour:        result.Tour,
		Path:        result.Path,
		Generations: result.Generations,
		Seed:        result.Seed,
		Evaluations: result.Evaluations,
		Fallback:    result.Fallback,
		DurationMs:  result.Duration.Milliseconds(),
	}

	if req.Save {
		pointSetID := req.PointSetID
		if pointSetID == nil {
			// keep the coordinates so the saved route indices stay resolvable
			ps, err := h.DB.PointSets().Create(r.Context(), &models.PointSet{
				Name:   "solve " + time.Now().UTC().Format(time.RFC3339),
				Points: points,
			})
			if err != nil {
				log.Printf("[ERROR] Failed to save inline points: points=%d err=%v", len(points), err)
				h.handleInternalError(w, err)
				return
			}
			pointSetID = &ps.ID
		}

		params := cfg.Params()
		// record the seed actually used so the run can be replayed
		params.Seed = result.Seed
		run := &models.Run{
			ID:           uuid.NewString(),
			PointSetID:   pointSetID,
			PointCount:   len(points),
			Params:       params,
			BestRoute:    result.Tour.Route,
			BestDistance: result.Tour.Distance,
			Evaluations:  result.Evaluations,
			DurationMs:   resp.DurationMs,
			Generations:  result.Generations,
			CreatedAt:    time.Now(),
		}
		if _, err := h.DB.Runs().Create(r.Context(), run); err != nil {
			log.Printf("[ERROR] Failed to save run: err=%v", err)
			h.handleInternalError(w, err)
			return
		}
		resp.RunID = run.ID
		log.Printf("[HTTP] Saved run: id=%s distance=%.4f", run.ID, run.BestDistance)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// checkLimits bounds the work one request may ask for
func checkLimits(cfg genetic.Config) error {
	switch {
	case cfg.Generations > maxGenerations:
		return &genetic.ConfigError{Field: "generations", Reason: fmt.Sprintf("must be <= %d (got %d)", maxGenerations, cfg.Generations)}
	case cfg.PopulationSize > maxPopulationSize:
		return &genetic.ConfigError{Field: "population_size", Reason: fmt.Sprintf("must be <= %d (got %d)", maxPopulationSize, cfg.PopulationSize)}
	case cfg.Workers > maxWorkers:
		return &genetic.ConfigError{Field: "workers", Reason: fmt.Sprintf("must be <= %d (got %d)", maxWorkers, cfg.Workers)}
	case cfg.Generations*cfg.PopulationSize > maxEvaluationSteps:
		return &genetic.ConfigError{Field: "generations", Reason: fmt.Sprintf("population_size x generations must be <= %d", maxEvaluationSteps)}
	}
	return nil
}
