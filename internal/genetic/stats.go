package genetic

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tour-planner/internal/models"
)

// ReportFunc receives the statistics of each generation as it completes
type ReportFunc func(models.GenerationStats)

// computeStats summarizes the current population. Std is the population
// standard deviation (divide by n).
func computeStats(generation int, pop Population, evaluations int) models.GenerationStats {
	fits := pop.Fitnesses()
	mean, std := stat.PopMeanStdDev(fits, nil)
	if math.IsNaN(std) {
		// rounding can push the variance of identical values just below zero
		std = 0
	}
	return models.GenerationStats{
		Generation:  generation,
		Min:         floats.Min(fits),
		Max:         floats.Max(fits),
		Mean:        mean,
		Std:         std,
		Evaluations: evaluations,
	}
}
