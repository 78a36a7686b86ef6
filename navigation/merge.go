package navigation

import (
	"log"

	"github.com/paulmach/orb"
)

// containedObstacles marks obstacles whose vertices all lie strictly inside another
// obstacle. Such vertices can never see anything, so they are left out of the graph.
// The obstacles themselves still block visibility.
func containedObstacles(obstacles []BufferedObstacle) []bool {
	contained := make([]bool, len(obstacles))
	if len(obstacles) <= 1 {
		return contained
	}

	for i := range obstacles {
		for j := range obstacles {
			if i == j || contained[j] {
				continue
			}
			if isObstacleContainedIn(obstacles[i], obstacles[j]) {
				contained[i] = true
				break
			}
		}
	}

	removed := 0
	for _, c := range contained {
		if c {
			removed++
		}
	}
	if removed > 0 {
		log.Printf("   Obstacles hidden inside others: %d\n", removed)
	}

	return contained
}

// isObstacleContainedIn checks if every vertex of a is in the open interior of b
func isObstacleContainedIn(a, b BufferedObstacle) bool {
	if len(a.Polygon.Vertices) == 0 {
		return false
	}

	// Quick bounding box check first
	if !isBoundContained(a.Bound, b.Bound) {
		return false
	}

	for _, vertex := range a.Polygon.Vertices {
		if !IsPointInsidePolygon(vertex, b.Polygon) {
			return false
		}
	}

	return true
}

// isBoundContained checks if bounding box a is contained in bounding box b
func isBoundContained(a, b orb.Bound) bool {
	return b.Contains(a.Min) && b.Contains(a.Max)
}
