package navigation

import "log"

// Connect returns a copy of the graph with transient start and end nodes attached.
// Each is linked to every node it can see, and to each other when unobstructed.
// The input graph is left untouched. A point sealed inside an obstacle simply ends up
// with no edges, which the path solver reports as no path.
func Connect(g *Graph, start, end Point) (*Graph, int, int) {
	augmented := g.Clone()
	base := len(g.Nodes)

	startID := augmented.AddNode(start, TransientNode)
	endID := augmented.AddNode(end, TransientNode)

	startEdges := augmented.connectTransient(startID, base)
	endEdges := augmented.connectTransient(endID, base)

	if augmented.Visible(start, end) {
		augmented.AddEdge(startID, endID)
		startEdges++
		endEdges++
	}

	if startEdges == 0 {
		log.Println("   ⚠️  Could not connect start point to any graph node")
	}
	if endEdges == 0 {
		log.Println("   ⚠️  Could not connect end point to any graph node")
	}

	return augmented, startID, endID
}

// connectTransient links node id to every visible node among the first base nodes
func (g *Graph) connectTransient(id, base int) int {
	from := g.Nodes[id].Point
	connected := 0
	for i := 0; i < base; i++ {
		if g.Visible(from, g.Nodes[i].Point) {
			g.AddEdge(id, i)
			connected++
		}
	}
	return connected
}
