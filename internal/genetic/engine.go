package genetic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"tour-planner/internal/models"
)

// pcgStream is the fixed PCG increment; runs differ only by seed
const pcgStream = 0x9e3779b97f4a7c15

// Seeder builds initial tours for a fixed point set
type Seeder interface {
	// Seed returns the same tour on every call
	Seed() []int
	// SeedShuffled returns a tour whose construction order is drawn from rng
	SeedShuffled(rng *rand.Rand) []int
}

// Result is the outcome of one evolution run
type Result struct {
	Best        []int
	Fitness     float64
	Seed        uint64
	Evaluations int
	// Stats holds the initial population (generation 0) followed by every
	// completed generation
	Stats []models.GenerationStats
	// Fallback is set when hull seeding was requested but unavailable
	Fallback bool
	Duration time.Duration
}

// Engine runs the generational loop: evaluate, select, vary, re-evaluate,
// replace. All random draws come from a single source, so a run is
// reproducible from its seed regardless of Workers.
type Engine struct {
	cfg    Config
	ops    Operators
	size   int
	seeder Seeder
	seed   uint64
	rng    *rand.Rand
	report ReportFunc
}

// NewEngine validates cfg and prepares a run over size points. A nil seeder
// makes every individual a random permutation.
func NewEngine(cfg Config, size int, ops Operators, seeder Seeder) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, &ConfigError{Field: "points", Reason: fmt.Sprintf("must contain at least 1 point (got %d)", size)}
	}
	if ops.Select == nil || ops.Crossover == nil || ops.Mutate == nil || ops.Evaluate == nil {
		return nil, &ConfigError{Field: "operators", Reason: "select, crossover, mutate and evaluate are all required"}
	}
	if cfg.SeedStrategy == "" {
		cfg.SeedStrategy = SeedHullShuffled
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Engine{
		cfg:    cfg,
		ops:    ops,
		size:   size,
		seeder: seeder,
		seed:   seed,
		rng:    rand.New(rand.NewPCG(seed, pcgStream)),
	}, nil
}

// OnGeneration registers a callback for per-generation statistics
func (e *Engine) OnGeneration(fn ReportFunc) {
	e.report = fn
}

// Seed returns the seed driving this run
func (e *Engine) Seed() uint64 {
	return e.seed
}

// Run evolves the population for the configured number of generations and
// returns the fittest individual of the final population. ctx is checked
// between generations.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	pop, fallback := e.initPopulation()
	evals := evaluateInvalid(pop, e.ops.Evaluate, e.cfg.Workers)
	total := evals
	stats := make([]models.GenerationStats, 0, e.cfg.Generations+1)
	stats = append(stats, e.emit(0, pop, evals))
	if err := e.check(0, pop); err != nil {
		return nil, err
	}

	for gen := 1; gen <= e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("evolution stopped before generation %d: %w", gen, err)
		}

		offspring := e.ops.Select(pop, len(pop), e.rng)
		for i := range offspring {
			offspring[i] = offspring[i].Clone()
		}
		e.vary(offspring)

		evals = evaluateInvalid(offspring, e.ops.Evaluate, e.cfg.Workers)
		total += evals
		pop = offspring

		stats = append(stats, e.emit(gen, pop, evals))
		if err := e.check(gen, pop); err != nil {
			return nil, err
		}
	}

	best := pop.Best()
	if err := ValidatePermutation(best.Genes, e.size); err != nil {
		return nil, fmt.Errorf("best individual: %w", err)
	}
	fitness, _ := best.Fitness()

	return &Result{
		Best:        best.Clone().Genes,
		Fitness:     fitness,
		Seed:        e.seed,
		Evaluations: total,
		Stats:       stats,
		Fallback:    fallback,
		Duration:    time.Since(start),
	}, nil
}

// vary applies crossover to adjacent pairs and then mutation to each
// offspring, invalidating the fitness of anything touched.
func (e *Engine) vary(offspring Population) {
	for i := 1; i < len(offspring); i += 2 {
		if e.rng.Float64() < e.cfg.CrossoverProb {
			a, b := offspring[i-1], offspring[i]
			a.Genes, b.Genes = e.ops.Crossover(a.Genes, b.Genes, e.rng)
			a.Invalidate()
			b.Invalidate()
		}
	}
	for _, ind := range offspring {
		if e.rng.Float64() < e.cfg.MutationProb {
			e.ops.Mutate(ind.Genes, e.rng)
			ind.Invalidate()
		}
	}
}

func (e *Engine) initPopulation() (Population, bool) {
	pop := make(Population, e.cfg.PopulationSize)
	strategy := e.cfg.SeedStrategy
	fallback := false
	if e.seeder == nil && strategy != SeedRandom {
		strategy = SeedRandom
		fallback = true
	}

	for i := range pop {
		var genes []int
		switch {
		case strategy == SeedRandom:
			genes = RandomPermutation(e.size, e.rng)
		case strategy == SeedHullDeterministic || i == 0:
			genes = e.seeder.Seed()
		default:
			genes = e.seeder.SeedShuffled(e.rng)
		}
		pop[i] = NewIndividual(genes)
	}
	return pop, fallback
}

func (e *Engine) emit(gen int, pop Population, evals int) models.GenerationStats {
	s := computeStats(gen, pop, evals)
	if e.report != nil {
		e.report(s)
	}
	return s
}

func (e *Engine) check(gen int, pop Population) error {
	if !e.cfg.CheckInvariants {
		return nil
	}
	for i, ind := range pop {
		if err := ValidatePermutation(ind.Genes, e.size); err != nil {
			return fmt.Errorf("generation %d, individual %d: %w", gen, i, err)
		}
	}
	return nil
}
