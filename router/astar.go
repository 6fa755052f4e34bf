package router

import (
	"container/heap"

	"github.com/pthm-cable/dropletgrid/grid"
)

// weightedNode pairs a successor Node with the cost of the edge that
// reaches it (§4.2.1): 100 for a cardinal move, 1 for waiting in place.
// Waiting being cheaper than moving biases the search toward yielding
// right-of-way rather than detouring when both are feasible.
type weightedNode struct {
	cost int
	node Node
}

func expand(n Node, g *grid.Grid) []weightedNode {
	neighbors := g.Neighbors4(n.Location)
	out := make([]weightedNode, 0, len(neighbors)+1)
	for _, loc := range neighbors {
		out = append(out, weightedNode{cost: 100, node: Node{Location: loc, Time: n.Time + 1}})
	}
	out = append(out, weightedNode{cost: 1, node: Node{Location: n.Location, Time: n.Time + 1}})
	return out
}

// searchItem is an entry in the open-set heap: a candidate node and its
// estimated total cost f = g + h.
type searchItem struct {
	node  Node
	f     int
	index int
}

// openHeap is an index-tracking container/heap implementation over
// searchItems. Decrease-key is simulated by pushing a fresh, cheaper
// entry for a node and discarding stale ones on pop via the closed-set
// check (§9) rather than mutating heap positions in place.
type openHeap []*searchItem

func (h openHeap) Len() int           { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(x interface{}) {
	item := x.(*searchItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// routeOne is the single-droplet time-expanded A* search (§4.2.3).
// nextFn expands a node into its already avoidance-filtered successors,
// heuristic estimates the remaining cost to the goal (admissible: any
// move costs at least 1, so Manhattan distance never overestimates), and
// doneFn is the goal predicate — location match AND no future final
// collision. It returns the path of locations from start to goal, or
// ok=false if the open set empties out first.
func routeOne(start Node, maxTime int, nextFn func(Node) []weightedNode, heuristic func(Node) int, doneFn func(Node) bool) ([]grid.Location, bool) {
	open := &openHeap{}
	heap.Push(open, &searchItem{node: start, f: heuristic(start)})

	bestSoFar := map[Node]int{start: 0}
	cameFrom := map[Node]Node{}
	closed := map[Node]struct{}{}

	for open.Len() > 0 {
		item := heap.Pop(open).(*searchItem)
		node := item.node

		if doneFn(node) {
			return buildPath(cameFrom, node), true
		}

		if _, alreadyClosed := closed[node]; alreadyClosed {
			continue
		}
		if node.Time > maxTime {
			continue
		}
		closed[node] = struct{}{}

		nodeCost := bestSoFar[node]

		for _, wn := range nextFn(node) {
			next := wn.node
			if _, done := closed[next]; done {
				continue
			}

			nextCost := nodeCost + wn.cost
			if old, ok := bestSoFar[next]; ok {
				if nextCost < old {
					bestSoFar[next] = nextCost
					cameFrom[next] = node
				} else {
					nextCost = old
				}
			} else {
				bestSoFar[next] = nextCost
				cameFrom[next] = node
			}

			heap.Push(open, &searchItem{node: next, f: nextCost + heuristic(next)})
		}
	}

	return nil, false
}

// buildPath walks cameFrom backwards from end to the start node (the one
// with no predecessor) and returns the forward location sequence.
func buildPath(cameFrom map[Node]Node, end Node) []grid.Location {
	var nodes []Node
	current := end
	for {
		nodes = append(nodes, current)
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	path := make([]grid.Location, len(nodes))
	for i, n := range nodes {
		path[len(nodes)-1-i] = n.Location
	}
	return path
}
