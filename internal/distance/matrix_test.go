package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-planner/internal/models"
)

func TestNewMatrix_Square(t *testing.T) {
	points := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	m := NewMatrix(points)

	require.Equal(t, 4, m.Size())
	assert.InDelta(t, 1.0, m.Distance(0, 1), 1e-12)
	assert.InDelta(t, math.Sqrt2, m.Distance(0, 2), 1e-12)
	assert.InDelta(t, 1.0, m.Distance(3, 0), 1e-12)
}

func TestNewMatrix_SymmetricZeroDiagonal(t *testing.T) {
	points := []models.Point{{X: 3, Y: -2}, {X: 0.5, Y: 7}, {X: -4, Y: 1}, {X: 2, Y: 2}, {X: 10, Y: 0}}

	m := NewMatrix(points)

	for i := 0; i < m.Size(); i++ {
		assert.Zero(t, m.Distance(i, i))
		for j := 0; j < m.Size(); j++ {
			assert.Equal(t, m.Distance(i, j), m.Distance(j, i))
			assert.GreaterOrEqual(t, m.Distance(i, j), 0.0)
		}
	}
}

func TestNewMatrix_Empty(t *testing.T) {
	m := NewMatrix(nil)

	assert.Equal(t, 0, m.Size())
	assert.Zero(t, TourLength(m, nil))
}

func TestNewMatrix_SinglePoint(t *testing.T) {
	m := NewMatrix([]models.Point{{X: 5, Y: 5}})

	assert.Equal(t, 1, m.Size())
	assert.Zero(t, m.Distance(0, 0))
	assert.Zero(t, TourLength(m, []int{0}))
}

func TestTourLength(t *testing.T) {
	points := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	m := NewMatrix(points)

	tests := []struct {
		name     string
		route    []int
		expected float64
	}{
		{"perimeter", []int{0, 1, 2, 3}, 4},
		{"crossed", []int{0, 2, 1, 3}, 2 + 2*math.Sqrt2},
		{"single", []int{2}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, TourLength(m, tt.route), 1e-9)
		})
	}
}
