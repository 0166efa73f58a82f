package database

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-planner/internal/models"
)

func TestRandomPoints(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	points := RandomPoints(50, rng)

	require.Len(t, points, 50)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 1.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.Y, 1.0)
	}

	assert.Len(t, RandomPoints(0, rng), DefaultRandomPoints)
	assert.Len(t, RandomPoints(-3, rng), DefaultRandomPoints)
}

func TestRandomPoints_Reproducible(t *testing.T) {
	a := RandomPoints(10, rand.New(rand.NewPCG(9, 9)))
	b := RandomPoints(10, rand.New(rand.NewPCG(9, 9)))

	assert.Equal(t, a, b)
}

func TestParsePointsJSON(t *testing.T) {
	expected := []models.Point{{X: 0, Y: 0}, {X: 1.5, Y: -2}}

	tests := []struct {
		name  string
		input string
	}{
		{"pairs", `[[0, 0], [1.5, -2]]`},
		{"objects", `[{"x": 0, "y": 0}, {"x": 1.5, "y": -2}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := ParsePointsJSON([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, expected, points)
		})
	}
}

func TestParsePointsJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty list", `[]`},
		{"triple", `[[1, 2, 3]]`},
		{"not json", `hello`},
		{"object", `{"x": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePointsJSON([]byte(tt.input))
			assert.ErrorIs(t, err, ErrInvalidPoints)
		})
	}
}

func TestParsePointsCSV(t *testing.T) {
	points, err := ParsePointsCSV(strings.NewReader("x,y\n0,0\n 1, 2\n3.5,-1\n"))

	require.NoError(t, err)
	assert.Equal(t, []models.Point{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3.5, Y: -1}}, points)
}

func TestParsePointsCSV_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad row", "0,0\nfoo,bar\n"},
		{"wrong arity", "0,0,0\n"},
		{"header only", "x,y\n"},
		{"NaN", "0,0\nNaN,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePointsCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidPoints)
		})
	}
}

func TestLoadPointsFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "points.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("1,1\n2,2\n"), 0600))
	jsonPath := filepath.Join(dir, "points.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[[1,1],[2,2]]`), 0600))

	fromCSV, err := LoadPointsFile(csvPath)
	require.NoError(t, err)
	fromJSON, err := LoadPointsFile(jsonPath)
	require.NoError(t, err)

	assert.Equal(t, fromCSV, fromJSON)

	_, err = LoadPointsFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
