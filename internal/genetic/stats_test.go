package genetic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"tour-planner/internal/distance"
	"tour-planner/internal/models"
)

func TestComputeStats(t *testing.T) {
	pop := popWithFitness(3, 1, 2)

	s := computeStats(4, pop, 2)

	assert.Equal(t, 4, s.Generation)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 2, s.Evaluations)
}

func TestComputeStats_MaxComesFromCurrentPopulation(t *testing.T) {
	// worst individual last in slice order, then first
	assert.Equal(t, 9.0, computeStats(1, popWithFitness(1, 2, 9), 0).Max)
	assert.Equal(t, 9.0, computeStats(1, popWithFitness(9, 2, 1), 0).Max)
}

func TestEvaluator_Deterministic(t *testing.T) {
	points := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	evaluator := NewEvaluator(distance.NewMatrix(points))

	first := evaluator.Evaluate([]int{0, 1, 2, 3})
	second := evaluator.Evaluate([]int{0, 1, 2, 3})

	assert.Equal(t, first, second)
	assert.InDelta(t, 4.0, first, 1e-12)
	assert.Equal(t, 4, evaluator.Size())
}

func TestEvaluateInvalid_OnlyStaleIndividuals(t *testing.T) {
	pop := Population{
		NewIndividual([]int{0}),
		NewIndividual([]int{1}),
		NewIndividual([]int{2}),
	}
	pop[1].SetFitness(100)
	calls := 0
	evaluate := func(genes []int) float64 {
		calls++
		return float64(genes[0])
	}

	n := evaluateInvalid(pop, evaluate, 1)

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []float64{0, 100, 2}, pop.Fitnesses())
}

func TestEvaluateInvalid_ParallelKeepsPairing(t *testing.T) {
	pop := make(Population, 64)
	for i := range pop {
		pop[i] = NewIndividual([]int{i})
	}

	n := evaluateInvalid(pop, func(genes []int) float64 { return float64(genes[0] * 10) }, 8)

	assert.Equal(t, 64, n)
	for i, ind := range pop {
		f, ok := ind.Fitness()
		assert.True(t, ok)
		assert.Equal(t, float64(i*10), f)
	}
}

func TestIndividualClone(t *testing.T) {
	ind := NewIndividual([]int{2, 0, 1})
	ind.SetFitness(3.5)

	clone := ind.Clone()
	clone.Genes[0] = 9
	clone.Invalidate()

	assert.Equal(t, []int{2, 0, 1}, ind.Genes)
	assert.True(t, ind.Valid())
	f, _ := ind.Fitness()
	assert.Equal(t, 3.5, f)
	assert.False(t, clone.Valid())
}

func TestPopulationBest_FirstMinimumWins(t *testing.T) {
	pop := popWithFitness(4, 2, 7, 2)

	assert.Same(t, pop[1], pop.Best())
	assert.Nil(t, Population{}.Best())
}
