package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tour-planner/internal/distance"
	"tour-planner/internal/genetic"
	"tour-planner/internal/models"
)

// geneticPlanner finds short tours with the genetic engine seeded by
// convex-hull cheapest insertion
type geneticPlanner struct{}

// NewGeneticPlanner creates a planner backed by the genetic engine
func NewGeneticPlanner() Planner {
	return &geneticPlanner{}
}

func (p *geneticPlanner) Plan(ctx context.Context, req *PlanRequest) (*models.PlanResult, error) {
	totalStart := time.Now()
	if err := validatePoints(req.Points); err != nil {
		return nil, err
	}
	log.Printf("[GA] Starting plan: points=%d population=%d generations=%d strategy=%s",
		len(req.Points), req.Config.PopulationSize, req.Config.Generations, req.Config.SeedStrategy)

	matrixStart := time.Now()
	matrix := distance.NewMatrix(req.Points)
	log.Printf("[TIMING] Distance matrix: %v", time.Since(matrixStart))

	var seeder genetic.Seeder
	if req.Config.SeedStrategy != genetic.SeedRandom {
		hs, err := NewHullSeeder(req.Points, matrix)
		switch {
		case errors.Is(err, ErrDegenerateGeometry):
			log.Printf("[SEED] %v, falling back to random permutations", err)
		case err != nil:
			return nil, err
		default:
			seeder = hs
		}
	}

	evaluator := genetic.NewEvaluator(matrix)
	engine, err := genetic.NewEngine(req.Config, len(req.Points), genetic.DefaultOperators(req.Config, evaluator), seeder)
	if err != nil {
		return nil, err
	}
	engine.OnGeneration(req.Report)

	res, err := engine.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("evolution failed: %w", err)
	}

	tour := models.Tour{Route: res.Best, Distance: res.Fitness}
	log.Printf("[GA] Best tour: distance=%.4f evaluations=%d seed=%d", tour.Distance, res.Evaluations, res.Seed)
	log.Printf("[TIMING] Plan total: %v", time.Since(totalStart))

	return &models.PlanResult{
		Tour:        tour,
		Path:        tour.Closed(req.Points),
		Generations: res.Stats,
		Seed:        res.Seed,
		Evaluations: res.Evaluations,
		Fallback:    res.Fallback,
		Duration:    res.Duration,
	}, nil
}

func validatePoints(points []models.Point) error {
	if len(points) == 0 {
		return &ErrPlanningFailed{Reason: "at least one point is required"}
	}
	for i, pt := range points {
		if !pt.IsFinite() {
			return &ErrPlanningFailed{Reason: fmt.Sprintf("point %d has a non-finite coordinate", i)}
		}
	}
	return nil
}
