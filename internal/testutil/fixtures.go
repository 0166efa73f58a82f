package testutil

import (
	"math/rand/v2"

	"tour-planner/internal/database"
	"tour-planner/internal/models"
)

// UnitSquare returns the corners of the unit square in counter-clockwise order
func UnitSquare() []models.Point {
	return []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
}

// SquareWithCenter returns the unit square corners followed by its center
func SquareWithCenter() []models.Point {
	return append(UnitSquare(), models.Point{X: 0.5, Y: 0.5})
}

// Collinear returns n points on the line y = 2x
func Collinear(n int) []models.Point {
	points := make([]models.Point, n)
	for i := range points {
		points[i] = models.Point{X: float64(i), Y: 2 * float64(i)}
	}
	return points
}

// RandomPoints returns n reproducible points in the unit square
func RandomPoints(n int, seed uint64) []models.Point {
	return database.RandomPoints(n, rand.New(rand.NewPCG(seed, seed)))
}

// NewPointSet builds an unsaved point set fixture
func NewPointSet(name string, points []models.Point) *models.PointSet {
	return &models.PointSet{Name: name, Points: points}
}
