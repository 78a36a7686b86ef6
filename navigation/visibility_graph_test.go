package navigation

import (
	"reflect"
	"testing"
)

func mustObstacles(t *testing.T, radius float64, polygons ...Polygon) []BufferedObstacle {
	t.Helper()
	obstacles, err := BuildObstacleSet(polygons, BufferOptions{Radius: radius})
	if err != nil {
		t.Fatalf("BuildObstacleSet failed: %v", err)
	}
	return obstacles
}

func TestSegmentBlocked(t *testing.T) {
	square := rect(0, 0, 10, 10)

	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"straight through", Point{-5, 5}, Point{15, 5}, true},
		{"along own edge", Point{0, 0}, Point{10, 0}, false},
		{"diagonal", Point{0, 0}, Point{10, 10}, true},
		{"grazing a corner", Point{-5, 5}, Point{5, -5}, false},
		{"edge extended past both corners", Point{-5, 0}, Point{15, 0}, false},
		{"ending at a corner", Point{-5, -5}, Point{0, 0}, false},
		{"entering from a corner", Point{0, 0}, Point{5, 5}, true},
		{"fully inside", Point{2, 2}, Point{8, 8}, true},
		{"point inside", Point{5, 5}, Point{5, 5}, true},
		{"point on boundary", Point{0, 5}, Point{0, 5}, false},
		{"clear", Point{-5, -5}, Point{-5, 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := segmentBlocked(tt.a, tt.b, square); got != tt.want {
				t.Errorf("segmentBlocked(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSegmentBlockedConcaveNotch(t *testing.T) {
	l := lShape()

	// Across the notch between the two arm tips, outside the shape
	if segmentBlocked(Point{40, 20}, Point{20, 40}, l) {
		t.Error("Expected segment across the notch to be clear")
	}
	// From a tip back into the arm
	if !segmentBlocked(Point{40, 20}, Point{0, 40}, l) {
		t.Error("Expected segment through the arm to be blocked")
	}
}

func TestSpatialIndexCandidates(t *testing.T) {
	obstacles := mustObstacles(t, 0, rect(0, 0, 10, 10), rect(100, 100, 110, 110))
	index := NewSpatialIndex(obstacles)

	got := index.Candidates(Point{-5, 5}, Point{15, 5})
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Expected only the first obstacle, got %v", got)
	}

	got = index.Candidates(Point{-5, -5}, Point{120, 120})
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Expected both obstacles, got %v", got)
	}

	if len(index.Candidates(Point{50, 0}, Point{60, 0})) != 0 {
		t.Error("Expected no candidates between the obstacles")
	}
}

func TestBuildNavigationGraphSquare(t *testing.T) {
	graph := BuildNavigationGraph(mustObstacles(t, 0, rect(0, 0, 10, 10)))

	if len(graph.Nodes) != 4 {
		t.Fatalf("Expected 4 nodes, got %d", len(graph.Nodes))
	}
	// Four sides, both diagonals run through the interior
	if graph.EdgeCount() != 4 {
		t.Errorf("Expected 4 edges, got %d", graph.EdgeCount())
	}
	for _, node := range graph.Nodes {
		if node.Obstacle != 0 {
			t.Errorf("Expected node %d to belong to obstacle 0, got %d", node.ID, node.Obstacle)
		}
	}
}

func TestBuildNavigationGraphEdgesAreClear(t *testing.T) {
	obstacles := mustObstacles(t, 5, rect(0, 0, 20, 20), rect(40, -10, 60, 30), lShape())
	graph := BuildNavigationGraph(obstacles)

	if graph.EdgeCount() == 0 {
		t.Fatal("Expected some edges")
	}

	for _, line := range graph.Lines() {
		for k := 1; k < 16; k++ {
			p := lerp(line[0], line[1], float64(k)/16)
			for _, o := range obstacles {
				if IsPointInsidePolygon(p, o.Polygon) {
					t.Fatalf("Edge %v passes through obstacle %d at %v", line, o.Index, p)
				}
			}
		}
	}
}

func TestBuildNavigationGraphIsIdempotent(t *testing.T) {
	polygons := []Polygon{rect(0, 0, 20, 20), rect(40, -10, 60, 30), lShape()}

	first := BuildNavigationGraph(mustObstacles(t, 5, polygons...))
	second := BuildNavigationGraph(mustObstacles(t, 5, polygons...))

	if !reflect.DeepEqual(first.Nodes, second.Nodes) {
		t.Error("Expected identical nodes")
	}
	if !reflect.DeepEqual(first.Edges, second.Edges) {
		t.Error("Expected identical edges and weights")
	}
}

func TestBuildNavigationGraphHidesContainedObstacles(t *testing.T) {
	obstacles := mustObstacles(t, 0, rect(0, 0, 100, 100), rect(40, 40, 60, 60))
	graph := BuildNavigationGraph(obstacles)

	if len(graph.Nodes) != 4 {
		t.Fatalf("Expected only the outer obstacle's 4 nodes, got %d", len(graph.Nodes))
	}
	for _, node := range graph.Nodes {
		if node.Obstacle != 0 {
			t.Errorf("Expected node from the outer obstacle, got obstacle %d", node.Obstacle)
		}
	}
}

func TestBuildNavigationGraphKeepsCoincidentNodes(t *testing.T) {
	// Two squares sharing a corner at (10, 10)
	graph := BuildNavigationGraph(mustObstacles(t, 0, rect(0, 0, 10, 10), rect(10, 10, 20, 20)))

	if len(graph.Nodes) != 8 {
		t.Fatalf("Expected 8 distinct nodes, got %d", len(graph.Nodes))
	}

	shared := 0
	for _, node := range graph.Nodes {
		if node.Point == (Point{10, 10}) {
			shared++
		}
	}
	if shared != 2 {
		t.Errorf("Expected two nodes at the shared corner, got %d", shared)
	}
}
