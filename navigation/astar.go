package navigation

import (
	"container/heap"
)

// searchNode represents a node in the A* search over the navigation graph
type searchNode struct {
	NodeID int     // ID of the node in the graph
	G      float64 // Cost from start to this node
	H      float64 // Heuristic cost from this node to end
	F      float64 // Total cost (G + H)
	Parent *searchNode
	Index  int // Index in the heap
}

// priorityQueue implements heap.Interface for A* algorithm
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].F == pq[j].F {
		return pq[i].NodeID < pq[j].NodeID
	}
	return pq[i].F < pq[j].F
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*searchNode)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// FindPath computes the shortest path between two graph nodes using A*
// with a straight-line heuristic. An unreachable end yields an empty Path.
func FindPath(graph *Graph, startID, endID int) Path {
	if graph == nil || !graph.validID(startID) || !graph.validID(endID) {
		return Path{}
	}

	endPoint := graph.Nodes[endID].Point
	h := graph.Nodes[startID].Point.Distance(endPoint)

	openSet := &priorityQueue{}
	heap.Init(openSet)

	startNode := &searchNode{NodeID: startID, G: 0, H: h, F: h}
	heap.Push(openSet, startNode)

	closedSet := make(map[int]bool)
	openSetMap := map[int]*searchNode{startID: startNode}

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.NodeID)

		if current.NodeID == endID {
			return graph.reconstruct(current)
		}

		closedSet[current.NodeID] = true

		for _, edge := range graph.Edges[current.NodeID] {
			neighborID := edge.To
			if closedSet[neighborID] {
				continue
			}

			tentativeG := current.G + edge.Cost

			neighbor, exists := openSetMap[neighborID]
			if !exists {
				neighbor = &searchNode{
					NodeID: neighborID,
					G:      tentativeG,
					H:      graph.Nodes[neighborID].Point.Distance(endPoint),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				heap.Push(openSet, neighbor)
				openSetMap[neighborID] = neighbor
			} else if tentativeG < neighbor.G {
				// Found a better path to this neighbor
				neighbor.G = tentativeG
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return Path{}
}

func (g *Graph) validID(id int) bool {
	return id >= 0 && id < len(g.Nodes)
}

// reconstruct walks the predecessor chain back to the start
func (g *Graph) reconstruct(end *searchNode) Path {
	length := 0
	for node := end; node != nil; node = node.Parent {
		length++
	}
	path := make(Path, length)
	for node := end; node != nil; node = node.Parent {
		length--
		path[length] = g.Nodes[node.NodeID]
	}
	return path
}
