package database

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"tour-planner/internal/models"
)

// DefaultRandomPoints is the point count used when a random set is
// requested without a size
const DefaultRandomPoints = 20

// RandomPoints returns n points drawn uniformly from the unit square.
// n <= 0 selects DefaultRandomPoints.
func RandomPoints(n int, rng *rand.Rand) []models.Point {
	if n <= 0 {
		n = DefaultRandomPoints
	}
	return lo.Times(n, func(int) models.Point {
		return models.Point{X: rng.Float64(), Y: rng.Float64()}
	})
}

// LoadPointsFile reads a point list from path. Files ending in .csv are read
// as "x,y" rows; anything else is parsed as JSON.
func LoadPointsFile(path string) ([]models.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read points file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParsePointsCSV(bytes.NewReader(data))
	}
	return ParsePointsJSON(data)
}

// ParsePointsJSON accepts either [[x, y], ...] or [{"x": x, "y": y}, ...]
func ParsePointsJSON(data []byte) ([]models.Point, error) {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err == nil {
		for i, pair := range pairs {
			if len(pair) != 2 {
				return nil, fmt.Errorf("%w: entry %d has %d coordinates, want 2", ErrInvalidPoints, i, len(pair))
			}
		}
		return checkPoints(lo.Map(pairs, func(pair []float64, _ int) models.Point {
			return models.Point{X: pair[0], Y: pair[1]}
		}))
	}

	var points []models.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoints, err)
	}
	return checkPoints(points)
}

// ParsePointsCSV reads "x,y" rows. A first row that does not parse as
// numbers is treated as a header.
func ParsePointsCSV(r io.Reader) ([]models.Point, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var points []models.Point
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPoints, err)
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if errX != nil || errY != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("%w: line %d is not a coordinate pair", ErrInvalidPoints, line)
		}
		points = append(points, models.Point{X: x, Y: y})
	}
	return checkPoints(points)
}

func checkPoints(points []models.Point) ([]models.Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrInvalidPoints)
	}
	if _, idx, found := lo.FindIndexOf(points, func(p models.Point) bool { return !p.IsFinite() }); found {
		return nil, fmt.Errorf("%w: point %d has a non-finite coordinate", ErrInvalidPoints, idx)
	}
	return points, nil
}
