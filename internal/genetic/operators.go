package genetic

import (
	"math/rand/v2"
	"slices"
)

// SelectFunc picks n individuals from pop. The returned individuals may
// repeat and alias pop; callers clone before modifying them.
type SelectFunc func(pop Population, n int, rng *rand.Rand) Population

// CrossoverFunc recombines two parent permutations into two new children.
// The parents are left untouched.
type CrossoverFunc func(a, b []int, rng *rand.Rand) ([]int, []int)

// MutateFunc modifies a permutation in place
type MutateFunc func(genes []int, rng *rand.Rand)

// EvaluateFunc returns the fitness of a permutation. It must be safe for
// concurrent use.
type EvaluateFunc func(genes []int) float64

// Operators bundles the strategies an engine runs each generation
type Operators struct {
	Select    SelectFunc
	Crossover CrossoverFunc
	Mutate    MutateFunc
	Evaluate  EvaluateFunc
}

// DefaultOperators returns tournament selection, ordered crossover and
// shuffle mutation configured from cfg.
func DefaultOperators(cfg Config, evaluator *Evaluator) Operators {
	return Operators{
		Select:    TournamentSelection(cfg.TournamentSize),
		Crossover: OrderedCrossover,
		Mutate:    ShuffleMutation(cfg.GeneMutationProb),
		Evaluate:  evaluator.Evaluate,
	}
}

// TournamentSelection draws k individuals with replacement n times and keeps
// the fittest of each draw. On ties the earliest draw wins.
func TournamentSelection(k int) SelectFunc {
	return func(pop Population, n int, rng *rand.Rand) Population {
		chosen := make(Population, n)
		for i := range chosen {
			best := pop[rng.IntN(len(pop))]
			for j := 1; j < k; j++ {
				candidate := pop[rng.IntN(len(pop))]
				if candidate.fitness < best.fitness {
					best = candidate
				}
			}
			chosen[i] = best
		}
		return chosen
	}
}

// OrderedCrossover picks two cut points 0 <= a < b < len and applies
// OrderedCrossoverAt. Permutations shorter than 2 are copied unchanged.
func OrderedCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	n := len(p1)
	if n < 2 {
		return slices.Clone(p1), slices.Clone(p2)
	}
	a := rng.IntN(n)
	b := rng.IntN(n - 1)
	if b >= a {
		b++
	}
	if a > b {
		a, b = b, a
	}
	return OrderedCrossoverAt(p1, p2, a, b)
}

// OrderedCrossoverAt builds two children for the segment [a, b). The first
// child keeps p1's segment in place and fills the remaining positions, from b
// onward with wraparound, with p2's other genes in the order they appear
// scanning p2 from b. The second child swaps the roles of the parents.
func OrderedCrossoverAt(p1, p2 []int, a, b int) ([]int, []int) {
	return orderedChild(p1, p2, a, b), orderedChild(p2, p1, a, b)
}

func orderedChild(keep, fill []int, a, b int) []int {
	n := len(keep)
	child := make([]int, n)
	taken := make([]bool, n)
	for i := a; i < b; i++ {
		child[i] = keep[i]
		taken[keep[i]] = true
	}

	pos := b % n
	for k := 0; k < n; k++ {
		gene := fill[(b+k)%n]
		if taken[gene] {
			continue
		}
		child[pos] = gene
		taken[gene] = true
		pos = (pos + 1) % n
	}
	return child
}

// ShuffleMutation swaps each position, with probability indpb, with another
// uniformly chosen position. The multiset of genes never changes.
func ShuffleMutation(indpb float64) MutateFunc {
	return func(genes []int, rng *rand.Rand) {
		n := len(genes)
		if n < 2 {
			return
		}
		for i := range genes {
			if rng.Float64() < indpb {
				j := rng.IntN(n - 1)
				if j >= i {
					j++
				}
				genes[i], genes[j] = genes[j], genes[i]
			}
		}
	}
}

// RandomPermutation returns a uniformly random ordering of 0..n-1
func RandomPermutation(n int, rng *rand.Rand) []int {
	return rng.Perm(n)
}
