package genetic

import (
	"slices"

	"github.com/samber/lo"
)

// Individual is a candidate tour: a permutation of point indices plus its
// cached fitness. Each individual owns its gene slice exclusively.
type Individual struct {
	Genes   []int
	fitness float64
	valid   bool
}

// NewIndividual wraps genes with an invalid fitness
func NewIndividual(genes []int) *Individual {
	return &Individual{Genes: genes}
}

// Fitness returns the cached tour length and whether it is current
func (ind *Individual) Fitness() (float64, bool) {
	return ind.fitness, ind.valid
}

// SetFitness caches an evaluated tour length
func (ind *Individual) SetFitness(f float64) {
	ind.fitness = f
	ind.valid = true
}

// Invalidate marks the cached fitness stale after the genes changed
func (ind *Individual) Invalidate() {
	ind.valid = false
}

// Valid reports whether the cached fitness is current
func (ind *Individual) Valid() bool {
	return ind.valid
}

// Clone returns a deep copy, fitness included
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Genes:   slices.Clone(ind.Genes),
		fitness: ind.fitness,
		valid:   ind.valid,
	}
}

// Population is an ordered set of individuals
type Population []*Individual

// Fitnesses returns the cached fitness of every individual in order
func (p Population) Fitnesses() []float64 {
	return lo.Map(p, func(ind *Individual, _ int) float64 { return ind.fitness })
}

// Best returns the first individual with the lowest fitness. All fitness
// values must be current.
func (p Population) Best() *Individual {
	if len(p) == 0 {
		return nil
	}
	best := p[0]
	for _, ind := range p[1:] {
		if ind.fitness < best.fitness {
			best = ind
		}
	}
	return best
}

// Invalid returns the positions whose fitness must be recomputed
func (p Population) Invalid() []int {
	var idx []int
	for i, ind := range p {
		if !ind.valid {
			idx = append(idx, i)
		}
	}
	return idx
}
