package genetic

import (
	"github.com/sourcegraph/conc/pool"

	"tour-planner/internal/distance"
)

// Evaluator scores tours against a shared, read-only distance matrix
type Evaluator struct {
	distanceCalc distance.DistanceCalculator
}

// NewEvaluator creates an evaluator bound to one point set
func NewEvaluator(distanceCalc distance.DistanceCalculator) *Evaluator {
	return &Evaluator{distanceCalc: distanceCalc}
}

// Size returns the number of points a valid individual must cover
func (e *Evaluator) Size() int {
	return e.distanceCalc.Size()
}

// Evaluate returns the closed tour length of genes. genes must be a
// permutation of the point indices; it is not re-validated here.
func (e *Evaluator) Evaluate(genes []int) float64 {
	return distance.TourLength(e.distanceCalc, genes)
}

// evaluateInvalid scores every individual with a stale fitness and returns
// how many were scored. Each result goes into its own individual, so
// concurrent evaluation keeps fitness paired with the right genes.
func evaluateInvalid(pop Population, evaluate EvaluateFunc, workers int) int {
	invalid := pop.Invalid()
	if workers <= 1 || len(invalid) < 2 {
		for _, i := range invalid {
			pop[i].SetFitness(evaluate(pop[i].Genes))
		}
		return len(invalid)
	}

	p := pool.New().WithMaxGoroutines(workers)
	for _, i := range invalid {
		ind := pop[i]
		p.Go(func() {
			ind.SetFitness(evaluate(ind.Genes))
		})
	}
	p.Wait()
	return len(invalid)
}
