package navigation

import (
	"fmt"
	"log"
	"time"
)

// DefaultMaxNodes leaves the visibility graph unbounded. The pairwise build is
// quadratic, so hosts serving large scenes should set a limit.
const DefaultMaxNodes = 0

// Planner runs the full query: buffer obstacles, build the visibility graph,
// attach start and end, search. It holds no state between calls.
type Planner struct {
	BufferRadius      float64
	SimplifyTolerance float64
	MaxNodes          int // 0 disables the limit
}

// NewPlanner creates a planner with the default node limit
func NewPlanner(bufferRadius float64) *Planner {
	return &Planner{
		BufferRadius: bufferRadius,
		MaxNodes:     DefaultMaxNodes,
	}
}

// Graph builds the navigation graph for the given obstacle outlines
func (p *Planner) Graph(polygons []Polygon) (*Graph, error) {
	obstacles, err := BuildObstacleSet(polygons, BufferOptions{
		Radius:            p.BufferRadius,
		SimplifyTolerance: p.SimplifyTolerance,
	})
	if err != nil {
		return nil, err
	}

	graph := obstacleNodes(obstacles)
	if total := len(graph.Nodes); p.MaxNodes > 0 && total > p.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes (limit %d), simplify obstacles or lower the buffer radius",
			ErrGraphTooLarge, total, p.MaxNodes)
	}

	connectVisible(graph)
	return graph, nil
}

// Plan returns the shortest obstacle-avoiding path from start to end.
// An empty Path with a nil error means no route exists.
func (p *Planner) Plan(start, end Point, polygons []Polygon) (Path, error) {
	startTime := time.Now()
	log.Println("🗺️  Planning route...")
	log.Printf("   Start: (%.2f, %.2f)\n", start.X, start.Y)
	log.Printf("   End:   (%.2f, %.2f)\n", end.X, end.Y)
	log.Printf("   Obstacles: %d polygons\n", len(polygons))

	graph, err := p.Graph(polygons)
	if err != nil {
		return nil, err
	}

	augmented, startID, endID := Connect(graph, start, end)
	path := FindPath(augmented, startID, endID)

	if len(path) == 0 {
		log.Println("   ❌ No path found")
	} else {
		log.Printf("   ✅ Path found with %d waypoints, length %.2f\n", len(path), path.Length())
	}
	log.Printf("   ⏱️  Planning time: %s\n", time.Since(startTime))

	return path, nil
}
