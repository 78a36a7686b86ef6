package navigation

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// SimplifyPolygon reduces polygon complexity using the Douglas-Peucker algorithm.
// Every original vertex stays within epsilon of the simplified outline, so callers
// buffering the result must add epsilon to their radius to stay conservative.
// Returns false when simplification would leave a degenerate outline.
func SimplifyPolygon(polygon Polygon, epsilon float64) (Polygon, bool) {
	if len(polygon.Vertices) <= 3 || epsilon <= 0 {
		return polygon, false
	}

	ring, ok := simplify.DouglasPeucker(epsilon).Simplify(polygon.Ring()).(orb.Ring)
	if !ok {
		return polygon, false
	}

	reduced, err := normalizePolygon(PolygonFromRing(ring))
	if err != nil || len(reduced.Vertices) >= len(polygon.Vertices) {
		return polygon, false
	}
	return reduced, true
}
