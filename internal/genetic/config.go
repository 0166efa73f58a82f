package genetic

import (
	"fmt"
	"strings"

	"tour-planner/internal/models"
)

// SeedStrategy selects how the initial population is built
type SeedStrategy string

const (
	// SeedHullShuffled seeds individual 0 with the deterministic hull
	// insertion tour and the rest with randomized interior insertion orders.
	SeedHullShuffled SeedStrategy = "hull_shuffled"
	// SeedHullDeterministic seeds every individual with the same hull tour
	SeedHullDeterministic SeedStrategy = "hull"
	// SeedRandom seeds every individual with a random permutation
	SeedRandom SeedStrategy = "random"
)

// ParseSeedStrategy maps a name to a SeedStrategy. The empty string selects
// the default.
func ParseSeedStrategy(s string) (SeedStrategy, error) {
	switch SeedStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SeedHullShuffled:
		return SeedHullShuffled, nil
	case SeedHullDeterministic:
		return SeedHullDeterministic, nil
	case SeedRandom:
		return SeedRandom, nil
	}
	return "", &ConfigError{Field: "seed_strategy", Reason: fmt.Sprintf("must be one of %s, %s, %s (got %q)",
		SeedHullShuffled, SeedHullDeterministic, SeedRandom, s)}
}

// Config holds the parameters of one evolution run
type Config struct {
	Generations      int
	PopulationSize   int
	CrossoverProb    float64
	MutationProb     float64
	TournamentSize   int
	GeneMutationProb float64
	SeedStrategy     SeedStrategy
	// Workers > 1 evaluates fitness concurrently
	Workers int
	// Seed 0 draws a seed from the clock; the seed used is reported in the result
	Seed uint64
	// CheckInvariants validates every individual after each generation
	CheckInvariants bool
}

// DefaultConfig returns the stock run parameters
func DefaultConfig() Config {
	return Config{
		Generations:      100,
		PopulationSize:   100,
		CrossoverProb:    0.7,
		MutationProb:     0.2,
		TournamentSize:   3,
		GeneMutationProb: 0.05,
		SeedStrategy:     SeedHullShuffled,
		Workers:          1,
	}
}

// Validate reports the first out-of-range parameter as a *ConfigError
func (c Config) Validate() error {
	if c.Generations < 0 {
		return &ConfigError{Field: "generations", Reason: fmt.Sprintf("must be >= 0 (got %d)", c.Generations)}
	}
	if c.PopulationSize < 2 {
		return &ConfigError{Field: "population_size", Reason: fmt.Sprintf("must be >= 2 (got %d)", c.PopulationSize)}
	}
	if c.TournamentSize < 1 || c.TournamentSize > c.PopulationSize {
		return &ConfigError{Field: "tournament_size", Reason: fmt.Sprintf("must be in [1, %d] (got %d)", c.PopulationSize, c.TournamentSize)}
	}
	probs := []struct {
		field string
		value float64
	}{
		{"crossover_prob", c.CrossoverProb},
		{"mutation_prob", c.MutationProb},
		{"gene_mutation_prob", c.GeneMutationProb},
	}
	for _, p := range probs {
		// NaN fails both comparisons, so test for the valid range
		if !(p.value >= 0 && p.value <= 1) {
			return &ConfigError{Field: p.field, Reason: fmt.Sprintf("must be in [0, 1] (got %v)", p.value)}
		}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Reason: fmt.Sprintf("must be >= 0 (got %d)", c.Workers)}
	}
	if _, err := ParseSeedStrategy(string(c.SeedStrategy)); err != nil {
		return err
	}
	return nil
}

// Params converts the configuration to its persisted form
func (c Config) Params() models.RunParams {
	return models.RunParams{
		Generations:      c.Generations,
		PopulationSize:   c.PopulationSize,
		CrossoverProb:    c.CrossoverProb,
		MutationProb:     c.MutationProb,
		TournamentSize:   c.TournamentSize,
		GeneMutationProb: c.GeneMutationProb,
		SeedStrategy:     string(c.SeedStrategy),
		Workers:          c.Workers,
		Seed:             c.Seed,
	}
}

// WithOverrides returns c with every field set in o copied in. A nil o
// returns c unchanged. The result is not validated.
func (c Config) WithOverrides(o *models.RunOverrides) (Config, error) {
	if o == nil {
		return c, nil
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&c.Generations, o.Generations)
	setInt(&c.PopulationSize, o.PopulationSize)
	setInt(&c.TournamentSize, o.TournamentSize)
	setInt(&c.Workers, o.Workers)
	setFloat(&c.CrossoverProb, o.CrossoverProb)
	setFloat(&c.MutationProb, o.MutationProb)
	setFloat(&c.GeneMutationProb, o.GeneMutationProb)
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.SeedStrategy != nil {
		strategy, err := ParseSeedStrategy(*o.SeedStrategy)
		if err != nil {
			return c, err
		}
		c.SeedStrategy = strategy
	}
	return c, nil
}

// Overrides returns every tunable field of c as a set of overrides, the form
// the app config file stores. The seed is left out unless fixed.
func (c Config) Overrides() *models.RunOverrides {
	strategy := string(c.SeedStrategy)
	o := &models.RunOverrides{
		Generations:      &c.Generations,
		PopulationSize:   &c.PopulationSize,
		CrossoverProb:    &c.CrossoverProb,
		MutationProb:     &c.MutationProb,
		TournamentSize:   &c.TournamentSize,
		GeneMutationProb: &c.GeneMutationProb,
		SeedStrategy:     &strategy,
		Workers:          &c.Workers,
	}
	if c.Seed != 0 {
		o.Seed = &c.Seed
	}
	return o
}
