package distance

import (
	"log"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"

	"tour-planner/internal/models"
)

// DistanceCalculator provides pairwise distances between the points of a fixed set
type DistanceCalculator interface {
	Size() int
	Distance(i, j int) float64
}

// Matrix holds the Euclidean distances of a point set. It is immutable once
// built and safe for concurrent reads.
type Matrix struct {
	n   int
	sym *mat.SymDense
}

// NewMatrix computes the distance matrix for points. Only the upper triangle
// is computed; SymDense mirrors it.
func NewMatrix(points []models.Point) *Matrix {
	start := time.Now()
	n := len(points)
	if n == 0 {
		return &Matrix{}
	}

	vecs := make([]r2.Vec, n)
	for i, p := range points {
		vecs[i] = r2.Vec{X: p.X, Y: p.Y}
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, r2.Norm(r2.Sub(vecs[i], vecs[j])))
		}
	}

	if n > 500 {
		log.Printf("[TIMING] Distance matrix for %d points: %v", n, time.Since(start))
	}
	return &Matrix{n: n, sym: sym}
}

// Size returns the number of points covered by the matrix
func (m *Matrix) Size() int {
	return m.n
}

// Distance returns the distance between points i and j. Callers must pass
// indices in [0, Size()).
func (m *Matrix) Distance(i, j int) float64 {
	return m.sym.At(i, j)
}

// TourLength returns the length of the closed tour visiting route in order
func TourLength(d DistanceCalculator, route []int) float64 {
	if len(route) < 2 {
		return 0
	}
	total := 0.0
	for k := 0; k < len(route)-1; k++ {
		total += d.Distance(route[k], route[k+1])
	}
	return total + d.Distance(route[len(route)-1], route[0])
}
