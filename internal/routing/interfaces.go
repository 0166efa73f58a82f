package routing

import (
	"context"
	"errors"
	"fmt"

	"tour-planner/internal/genetic"
	"tour-planner/internal/models"
)

// PlanRequest contains the input for one tour optimization
type PlanRequest struct {
	Points []models.Point
	Config genetic.Config
	// Report receives per-generation statistics; may be nil
	Report genetic.ReportFunc
}

// Planner provides tour optimization
type Planner interface {
	Plan(ctx context.Context, req *PlanRequest) (*models.PlanResult, error)
}

// ErrDegenerateGeometry is returned when a point set has no polygonal convex hull
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// GeometryError describes why hull seeding is impossible for a point set
type GeometryError struct {
	Points   int
	Distinct int
	Reason   string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry: %s (points=%d, distinct=%d)", e.Reason, e.Points, e.Distinct)
}

func (e *GeometryError) Unwrap() error {
	return ErrDegenerateGeometry
}

// ErrPlanningFailed is returned when a request cannot be planned
type ErrPlanningFailed struct {
	Reason string
}

func (e *ErrPlanningFailed) Error() string {
	return fmt.Sprintf("planning failed: %s", e.Reason)
}
