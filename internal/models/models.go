package models

import (
	"math"
	"time"
)

// Point represents a 2-D coordinate pair. Its identity is its index in the
// point set it belongs to.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are real numbers
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// PointSet is a named collection of points kept in the store
type PointSet struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Points    []Point   `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerationStats summarizes the fitness of one generation's population
type GenerationStats struct {
	Generation  int     `json:"generation"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	Evaluations int     `json:"evaluations"`
}

// Tour is a closed route over a point set: Route is a permutation of point
// indices and the last index connects back to the first.
type Tour struct {
	Route    []int   `json:"route"`
	Distance float64 `json:"distance"`
}

// Closed returns the coordinates visited by the tour with the starting point
// repeated at the end, ready for an external plotter.
func (t *Tour) Closed(points []Point) []Point {
	if len(t.Route) == 0 {
		return []Point{}
	}
	path := make([]Point, 0, len(t.Route)+1)
	for _, idx := range t.Route {
		path = append(path, points[idx])
	}
	return append(path, points[t.Route[0]])
}

// First returns the starting point index, or -1 for an empty tour
func (t *Tour) First() int {
	if len(t.Route) == 0 {
		return -1
	}
	return t.Route[0]
}

// Last returns the final point index before the tour closes, or -1
func (t *Tour) Last() int {
	if len(t.Route) == 0 {
		return -1
	}
	return t.Route[len(t.Route)-1]
}

// RunParams is the persisted form of a solver configuration
type RunParams struct {
	Generations      int     `json:"generations"`
	PopulationSize   int     `json:"population_size"`
	CrossoverProb    float64 `json:"crossover_prob"`
	MutationProb     float64 `json:"mutation_prob"`
	TournamentSize   int     `json:"tournament_size"`
	GeneMutationProb float64 `json:"gene_mutation_prob"`
	SeedStrategy     string  `json:"seed_strategy"`
	Workers          int     `json:"workers"`
	Seed             uint64  `json:"seed"`
}

// RunOverrides names the solver parameters to change; nil fields keep the
// base configuration. Config files and solve requests both use it.
type RunOverrides struct {
	Generations      *int     `json:"generations,omitempty"`
	PopulationSize   *int     `json:"population_size,omitempty"`
	CrossoverProb    *float64 `json:"crossover_prob,omitempty"`
	MutationProb     *float64 `json:"mutation_prob,omitempty"`
	TournamentSize   *int     `json:"tournament_size,omitempty"`
	GeneMutationProb *float64 `json:"gene_mutation_prob,omitempty"`
	SeedStrategy     *string  `json:"seed_strategy,omitempty"`
	Workers          *int     `json:"workers,omitempty"`
	Seed             *uint64  `json:"seed,omitempty"`
}

// PlanResult contains the full result of one solver run
type PlanResult struct {
	Tour        Tour              `json:"tour"`
	Path        []Point           `json:"path"`
	Generations []GenerationStats `json:"generations"`
	Seed        uint64            `json:"seed"`
	Evaluations int               `json:"evaluations"`
	Fallback    bool              `json:"fallback"`
	Duration    time.Duration     `json:"duration_ns"`
}

// Run is a stored record of a solver run
type Run struct {
	ID           string            `json:"id"`
	PointSetID   *int64            `json:"point_set_id,omitempty"`
	PointCount   int               `json:"point_count"`
	Params       RunParams         `json:"params"`
	BestRoute    []int             `json:"best_route"`
	BestDistance float64           `json:"best_distance"`
	Evaluations  int               `json:"evaluations"`
	DurationMs   int64             `json:"duration_ms"`
	Generations  []GenerationStats `json:"generations,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
