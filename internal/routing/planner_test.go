package routing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-planner/internal/genetic"
	"tour-planner/internal/models"
	"tour-planner/internal/testutil"
)

func testConfig() genetic.Config {
	cfg := genetic.DefaultConfig()
	cfg.Generations = 20
	cfg.PopulationSize = 30
	cfg.Seed = 11
	cfg.CheckInvariants = true
	return cfg
}

func TestPlan_UnitSquare(t *testing.T) {
	planner := NewGeneticPlanner()

	result, err := planner.Plan(context.Background(), &PlanRequest{
		Points: testutil.UnitSquare(),
		Config: testConfig(),
	})

	require.NoError(t, err)
	assert.InDelta(t, 4.0, result.Tour.Distance, 1e-9)
	assert.NoError(t, genetic.ValidatePermutation(result.Tour.Route, 4))
	require.Len(t, result.Path, 5)
	assert.Equal(t, result.Path[0], result.Path[4])
	assert.False(t, result.Fallback)
	assert.Equal(t, uint64(11), result.Seed)
}

func TestPlan_SquareWithCenterHullTour(t *testing.T) {
	cfg := testConfig()
	cfg.SeedStrategy = genetic.SeedHullDeterministic
	cfg.Generations = 0

	result, err := NewGeneticPlanner().Plan(context.Background(), &PlanRequest{
		Points: testutil.SquareWithCenter(),
		Config: cfg,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 1, 2, 3}, result.Tour.Route)
	assert.InDelta(t, 3+math.Sqrt2, result.Tour.Distance, 1e-9)
}

func TestPlan_ReportsEveryGeneration(t *testing.T) {
	var reported []models.GenerationStats
	cfg := testConfig()

	result, err := NewGeneticPlanner().Plan(context.Background(), &PlanRequest{
		Points: testutil.RandomPoints(25, 5),
		Config: cfg,
		Report: func(s models.GenerationStats) { reported = append(reported, s) },
	})

	require.NoError(t, err)
	require.Len(t, reported, cfg.Generations+1)
	assert.Equal(t, reported, result.Generations)
	for i, s := range reported {
		assert.Equal(t, i, s.Generation)
	}
}

func TestPlan_DegenerateInputsFallBack(t *testing.T) {
	tests := []struct {
		name   string
		points []models.Point
	}{
		{"single point", []models.Point{{X: 3, Y: 3}}},
		{"two points", []models.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}},
		{"collinear", testutil.Collinear(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewGeneticPlanner().Plan(context.Background(), &PlanRequest{
				Points: tt.points,
				Config: testConfig(),
			})

			require.NoError(t, err)
			assert.True(t, result.Fallback)
			assert.NoError(t, genetic.ValidatePermutation(result.Tour.Route, len(tt.points)))
		})
	}
}

func TestPlan_TwoPointsDistance(t *testing.T) {
	result, err := NewGeneticPlanner().Plan(context.Background(), &PlanRequest{
		Points: []models.Point{{X: 0, Y: 0}, {X: 3, Y: 4}},
		Config: testConfig(),
	})

	require.NoError(t, err)
	assert.InDelta(t, 10.0, result.Tour.Distance, 1e-12)
}

func TestPlan_Reproducible(t *testing.T) {
	points := testutil.RandomPoints(30, 9)
	cfg := testConfig()
	cfg.Workers = 3

	r1, err := NewGeneticPlanner().Plan(context.Background(), &PlanRequest{Points: points, Config: cfg})
	require.NoError(t, err)
	r2, err := NewGeneticPlanner().Plan(context.Background(), &PlanRequest{Points: points, Config: cfg})
	require.NoError(t, err)

	assert.Equal(t, r1.Tour, r2.Tour)
	assert.Equal(t, r1.Generations, r2.Generations)
}

func TestPlan_InvalidInput(t *testing.T) {
	planner := NewGeneticPlanner()

	_, err := planner.Plan(context.Background(), &PlanRequest{Config: testConfig()})
	var planErr *ErrPlanningFailed
	assert.ErrorAs(t, err, &planErr)

	_, err = planner.Plan(context.Background(), &PlanRequest{
		Points: []models.Point{{X: math.Inf(1), Y: 0}},
		Config: testConfig(),
	})
	assert.ErrorAs(t, err, &planErr)

	bad := testConfig()
	bad.CrossoverProb = 2
	_, err = planner.Plan(context.Background(), &PlanRequest{Points: testutil.UnitSquare(), Config: bad})
	assert.ErrorIs(t, err, genetic.ErrInvalidConfiguration)
}
