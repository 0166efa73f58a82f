package routing

import (
	"log"
	"math"
	"math/rand/v2"
	"slices"

	"tour-planner/internal/distance"
	"tour-planner/internal/models"
)

// HullSeeder builds tours by convex-hull cheapest insertion. The hull is
// computed once; every Seed call starts from a fresh copy of the hull cycle.
type HullSeeder struct {
	distanceCalc distance.DistanceCalculator
	hull         []int
	interior     []int
}

// NewHullSeeder prepares a seeder for points. It returns a *GeometryError
// (matching ErrDegenerateGeometry) when the points have no polygonal hull.
func NewHullSeeder(points []models.Point, distanceCalc distance.DistanceCalculator) (*HullSeeder, error) {
	hull, err := ConvexHull(points)
	if err != nil {
		return nil, err
	}

	onHull := make([]bool, len(points))
	for _, idx := range hull {
		onHull[idx] = true
	}
	interior := make([]int, 0, len(points)-len(hull))
	for i := range points {
		if !onHull[i] {
			interior = append(interior, i)
		}
	}

	log.Printf("[SEED] Convex hull: %d of %d points on hull", len(hull), len(points))
	return &HullSeeder{
		distanceCalc: distanceCalc,
		hull:         hull,
		interior:     interior,
	}, nil
}

// Seed inserts interior points in index order. The result is the same on
// every call.
func (s *HullSeeder) Seed() []int {
	return s.insertAll(s.interior)
}

// SeedShuffled inserts interior points in an order drawn from rng, so each
// call can yield a different tour around the same hull.
func (s *HullSeeder) SeedShuffled(rng *rand.Rand) []int {
	order := slices.Clone(s.interior)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return s.insertAll(order)
}

func (s *HullSeeder) insertAll(order []int) []int {
	route := make([]int, len(s.hull), len(s.hull)+len(order))
	copy(route, s.hull)
	for _, candidate := range order {
		pos, _ := s.cheapestPosition(route, candidate)
		route = slices.Insert(route, pos, candidate)
	}
	return route
}

// cheapestPosition returns the slot to insert candidate at and the added
// length. Edges are scanned from route[0]; the first minimum wins.
func (s *HullSeeder) cheapestPosition(route []int, candidate int) (int, float64) {
	bestCost := math.Inf(1)
	bestPos := len(route)
	for i := range route {
		from := route[i]
		to := route[(i+1)%len(route)]
		cost := s.distanceCalc.Distance(from, candidate) +
			s.distanceCalc.Distance(candidate, to) -
			s.distanceCalc.Distance(from, to)
		if cost < bestCost {
			bestCost = cost
			bestPos = i + 1
		}
	}
	return bestPos, bestCost
}
