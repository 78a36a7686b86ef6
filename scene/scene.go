// Package scene holds the agent position and the obstacle shapes the navigator
// reads at the start of every move request.
package scene

import (
	"sync"

	"github.com/paulmach/orb"

	"agent-navigator/navigation"
)

// Obstacle is a named static shape in the scene
type Obstacle struct {
	Name    string             `json:"name"`
	Polygon navigation.Polygon `json:"polygon"`
}

// Scene is a concurrency-safe store of the agent position and obstacle shapes
type Scene struct {
	mu        sync.RWMutex
	agent     navigation.Point
	obstacles []Obstacle

	// Set once a scene file placed the agent
	agentLoaded bool
}

// New creates an empty scene with the agent at the given position
func New(agent navigation.Point) *Scene {
	return &Scene{
		agent:     agent,
		obstacles: make([]Obstacle, 0),
	}
}

// AgentPosition returns the agent's current position
func (s *Scene) AgentPosition() navigation.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agent
}

// SetAgentPosition moves the agent
func (s *Scene) SetAgentPosition(p navigation.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agent = p
}

// HasLoadedAgent reports whether a loaded scene file placed the agent,
// even at the origin
func (s *Scene) HasLoadedAgent() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agentLoaded
}

func (s *Scene) placeAgent(p navigation.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agent = p
	s.agentLoaded = true
}

// AddObstacle adds a polygonal obstacle
func (s *Scene) AddObstacle(name string, polygon navigation.Polygon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.obstacles = append(s.obstacles, Obstacle{Name: name, Polygon: clonePolygon(polygon)})
}

// AddRect adds an axis-aligned rectangle obstacle covering a node's bounds
func (s *Scene) AddRect(name string, x, y, width, height float64) {
	s.AddObstacle(name, Rect(x, y, width, height))
}

// Obstacles returns a snapshot of the obstacle outlines
func (s *Scene) Obstacles() []navigation.Polygon {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polygons := make([]navigation.Polygon, len(s.obstacles))
	for i, o := range s.obstacles {
		polygons[i] = clonePolygon(o.Polygon)
	}
	return polygons
}

// Shapes returns a snapshot of the named obstacles
func (s *Scene) Shapes() []Obstacle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shapes := make([]Obstacle, len(s.obstacles))
	for i, o := range s.obstacles {
		shapes[i] = Obstacle{Name: o.Name, Polygon: clonePolygon(o.Polygon)}
	}
	return shapes
}

// Bound returns the box covering the agent and every obstacle
func (s *Scene) Bound() orb.Bound {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bound := orb.Bound{Min: orb.Point{s.agent.X, s.agent.Y}, Max: orb.Point{s.agent.X, s.agent.Y}}
	for _, o := range s.obstacles {
		bound = bound.Union(o.Polygon.Bound())
	}
	return bound
}

// Rect builds the outline of an axis-aligned rectangle with its lower-left corner at (x, y)
func Rect(x, y, width, height float64) navigation.Polygon {
	bound := orb.Bound{Min: orb.Point{x, y}, Max: orb.Point{x + width, y + height}}
	return navigation.PolygonFromRing(bound.ToRing())
}

func clonePolygon(p navigation.Polygon) navigation.Polygon {
	return navigation.Polygon{Vertices: append([]navigation.Point(nil), p.Vertices...)}
}
