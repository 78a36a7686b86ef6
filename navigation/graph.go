package navigation

// TransientNode marks graph nodes that do not belong to an obstacle
const TransientNode = -1

// GraphNode is a point with its own identity; two nodes may share coordinates
type GraphNode struct {
	ID       int   `json:"id"`
	Point    Point `json:"point"`
	Obstacle int   `json:"obstacle"` // index of the source obstacle, TransientNode for start/end
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Euclidean distance
}

// Graph is an undirected visibility graph. Every edge is stored in both directions.
type Graph struct {
	Nodes []GraphNode
	Edges map[int][]Edge

	index *SpatialIndex
}

// Path is an ordered list of nodes from start to end; empty means no route exists
type Path []GraphNode

func newGraph(index *SpatialIndex) *Graph {
	return &Graph{
		Nodes: make([]GraphNode, 0),
		Edges: make(map[int][]Edge),
		index: index,
	}
}

// AddNode appends a node and returns its ID
func (g *Graph) AddNode(p Point, obstacle int) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, GraphNode{ID: id, Point: p, Obstacle: obstacle})
	return id
}

// AddEdge adds a bidirectional edge weighted by Euclidean distance
func (g *Graph) AddEdge(i, j int) {
	cost := g.Nodes[i].Point.Distance(g.Nodes[j].Point)
	g.Edges[i] = append(g.Edges[i], Edge{To: j, Cost: cost})
	g.Edges[j] = append(g.Edges[j], Edge{To: i, Cost: cost})
}

// HasEdge reports whether nodes i and j are connected
func (g *Graph) HasEdge(i, j int) bool {
	for _, e := range g.Edges[i] {
		if e.To == j {
			return true
		}
	}
	return false
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	total := 0
	for _, edges := range g.Edges {
		total += len(edges)
	}
	return total / 2
}

// Visible runs the graph's obstruction test on an arbitrary segment
func (g *Graph) Visible(a, b Point) bool {
	if g.index == nil {
		return true
	}
	return g.index.Visible(a, b)
}

// Clone returns a deep copy that shares only the immutable obstacle index
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Nodes: make([]GraphNode, len(g.Nodes), len(g.Nodes)+2),
		Edges: make(map[int][]Edge, len(g.Edges)),
		index: g.index,
	}
	copy(clone.Nodes, g.Nodes)
	for id, edges := range g.Edges {
		clone.Edges[id] = append([]Edge(nil), edges...)
	}
	return clone
}

// Lines returns each undirected edge once as a two-point line, for visualization
func (g *Graph) Lines() [][]Point {
	lines := make([][]Point, 0)
	for _, node := range g.Nodes {
		for _, edge := range g.Edges[node.ID] {
			if node.ID < edge.To {
				lines = append(lines, []Point{node.Point, g.Nodes[edge.To].Point})
			}
		}
	}
	return lines
}

// Points returns the waypoint coordinates of the path
func (p Path) Points() []Point {
	points := make([]Point, len(p))
	for i, node := range p {
		points[i] = node.Point
	}
	return points
}

// Length returns the summed Euclidean length of the path
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i-1].Point.Distance(p[i].Point)
	}
	return total
}
