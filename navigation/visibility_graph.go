package navigation

import "log"

// BuildNavigationGraph constructs a visibility graph over buffered obstacle vertices.
// Two nodes are connected iff the segment between them stays out of every obstacle's
// interior; an obstacle's own edges are valid, so paths can hug its outline.
func BuildNavigationGraph(obstacles []BufferedObstacle) *Graph {
	graph := obstacleNodes(obstacles)
	connectVisible(graph)
	return graph
}

// obstacleNodes adds the vertices of every obstacle not swallowed by another one
func obstacleNodes(obstacles []BufferedObstacle) *Graph {
	graph := newGraph(NewSpatialIndex(obstacles))
	hidden := containedObstacles(obstacles)

	for i, obstacle := range obstacles {
		if hidden[i] {
			continue
		}
		for _, vertex := range obstacle.Polygon.Vertices {
			graph.AddNode(vertex, i)
		}
	}
	return graph
}

// connectVisible checks every node pair against the graph's obstacle index
func connectVisible(graph *Graph) {
	totalNodes := len(graph.Nodes)
	totalPossibleEdges := (totalNodes * (totalNodes - 1)) / 2
	log.Printf("   Graph nodes: %d\n", totalNodes)
	log.Printf("   Checking up to %d possible edges...\n", totalPossibleEdges)

	edgesChecked := 0
	for i := 0; i < totalNodes; i++ {
		for j := i + 1; j < totalNodes; j++ {
			edgesChecked++

			// Log progress for large graphs
			if edgesChecked%10000 == 0 {
				log.Printf("   Progress: %d/%d edges checked...\n", edgesChecked, totalPossibleEdges)
			}

			if graph.index.Visible(graph.Nodes[i].Point, graph.Nodes[j].Point) {
				graph.AddEdge(i, j)
			}
		}
	}

	log.Printf("   Edges added: %d\n", graph.EdgeCount())
}
