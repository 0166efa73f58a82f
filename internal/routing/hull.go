package routing

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"tour-planner/internal/models"
)

// ConvexHull returns the indices of the strictly convex hull vertices of
// points in counter-clockwise order, starting at the lowest-x point (lowest y
// breaks ties). Duplicate points are reported once, by their smallest index.
//
// Fewer than three distinct points, or a point set that is entirely
// collinear, has no polygonal hull and yields a *GeometryError.
func ConvexHull(points []models.Point) ([]int, error) {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(points[a].X, points[b].X); c != 0 {
			return c
		}
		return cmp.Compare(points[a].Y, points[b].Y)
	})
	order = slices.CompactFunc(order, func(a, b int) bool {
		return points[a] == points[b]
	})

	distinct := len(order)
	if distinct < 3 {
		return nil, &GeometryError{Points: len(points), Distinct: distinct, Reason: "fewer than 3 distinct points"}
	}

	vec := func(i int) r2.Vec { return r2.Vec{X: points[i].X, Y: points[i].Y} }
	// turn > 0 means o->a->b bends counter-clockwise
	turn := func(o, a, b int) float64 {
		return r2.Cross(r2.Sub(vec(a), vec(o)), r2.Sub(vec(b), vec(o)))
	}

	hull := make([]int, 0, 2*distinct)
	for _, idx := range order {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], idx) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, idx)
	}
	lower := len(hull) + 1
	for k := distinct - 2; k >= 0; k-- {
		idx := order[k]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], idx) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, idx)
	}
	hull = hull[:len(hull)-1]

	if len(hull) < 3 {
		return nil, &GeometryError{Points: len(points), Distinct: distinct, Reason: "all points are collinear"}
	}
	return hull, nil
}
