package navigation

import (
	"math"
	"testing"
)

// diamondGraph has two routes from 0 to 3: a short one through 1 and a long one through 2
func diamondGraph() *Graph {
	g := newGraph(nil)
	g.AddNode(Point{0, 0}, TransientNode)
	g.AddNode(Point{5, 1}, 0)
	g.AddNode(Point{5, 20}, 0)
	g.AddNode(Point{10, 0}, TransientNode)
	g.AddEdge(0, 1)
	g.AddEdge(1, 3)
	g.AddEdge(0, 2)
	g.AddEdge(2, 3)
	return g
}

func TestFindPathPicksShortestRoute(t *testing.T) {
	path := FindPath(diamondGraph(), 0, 3)

	if len(path) != 3 {
		t.Fatalf("Expected 3 waypoints, got %d", len(path))
	}
	ids := []int{path[0].ID, path[1].ID, path[2].ID}
	if ids[0] != 0 || ids[1] != 1 || ids[2] != 3 {
		t.Errorf("Expected route 0-1-3, got %v", ids)
	}

	want := 2 * math.Sqrt(26)
	if math.Abs(path.Length()-want) > 1e-9 {
		t.Errorf("Expected length %.6f, got %.6f", want, path.Length())
	}
}

func TestFindPathUnreachable(t *testing.T) {
	g := diamondGraph()
	island := g.AddNode(Point{50, 50}, TransientNode)

	if path := FindPath(g, 0, island); len(path) != 0 {
		t.Errorf("Expected empty path, got %d waypoints", len(path))
	}
}

func TestFindPathInvalidIDs(t *testing.T) {
	g := diamondGraph()

	for _, ids := range [][2]int{{-1, 3}, {0, 99}, {7, 8}} {
		if path := FindPath(g, ids[0], ids[1]); len(path) != 0 {
			t.Errorf("Expected empty path for ids %v, got %d waypoints", ids, len(path))
		}
	}
	if path := FindPath(nil, 0, 1); len(path) != 0 {
		t.Error("Expected empty path for nil graph")
	}
}

func TestFindPathSameNode(t *testing.T) {
	path := FindPath(diamondGraph(), 2, 2)
	if len(path) != 1 || path[0].ID != 2 {
		t.Errorf("Expected single-node path, got %v", path)
	}
}

func TestPathPoints(t *testing.T) {
	path := FindPath(diamondGraph(), 0, 3)
	points := path.Points()

	if len(points) != len(path) {
		t.Fatalf("Expected %d points, got %d", len(path), len(points))
	}
	if points[0] != (Point{0, 0}) || points[len(points)-1] != (Point{10, 0}) {
		t.Errorf("Unexpected endpoints %v", points)
	}
}
