package router

import "github.com/pthm-cable/dropletgrid/grid"

// Node is a point in the time-expanded search space (§4.2.1): a grid
// location paired with a discrete tick.
type Node struct {
	Location grid.Location
	Time     int
}

// avoidanceSet is the cooperative reservation shared across the
// per-droplet routings of one planning attempt (§4.2.2). Routing a
// droplet against it, then feeding the resulting path back in via
// avoidPath, is what makes later droplets detour around earlier ones.
type avoidanceSet struct {
	present map[Node]struct{}
	finals  map[grid.Location]int
	maxTime int
}

func newAvoidanceSet() *avoidanceSet {
	return &avoidanceSet{
		present: make(map[Node]struct{}),
		finals:  make(map[grid.Location]int),
	}
}

// collides reports whether node is already reserved by a prior path.
func (a *avoidanceSet) collides(n Node) bool {
	_, ok := a.present[n]
	return ok
}

// collidesWithFinal reports whether n's location was claimed as another
// droplet's final resting cell at or before n's time — that droplet will
// remain there indefinitely, so any later traversal is unsafe.
func (a *avoidanceSet) collidesWithFinal(n Node) bool {
	finalT, ok := a.finals[n.Location]
	return ok && n.Time >= finalT
}

// wouldFinallyCollide reports whether parking at n would conflict with
// any reservation from n.Time through the current max_time inclusive —
// the guard the goal predicate (§4.2.3) applies before accepting a
// stopping cell.
func (a *avoidanceSet) wouldFinallyCollide(n Node) bool {
	for t := n.Time; t <= a.maxTime; t++ {
		if a.collides(Node{Location: n.Location, Time: t}) {
			return true
		}
	}
	return false
}

// filter drops any successor node in next that collides with this set,
// spatially or via a final reservation.
func (a *avoidanceSet) filter(next []weightedNode) []weightedNode {
	out := next[:0]
	for _, wn := range next {
		if a.collides(wn.node) || a.collidesWithFinal(wn.node) {
			continue
		}
		out = append(out, wn)
	}
	return out
}

// avoidPath reserves an already-routed path: every node along it is
// widened spatially (by the droplet's dimensioned footprint) and
// temporally (±1 tick, preventing adjacent-tick cell swaps, §9), and the
// footprint of its final cell is recorded in finals at the tick the
// droplet parks there.
func (a *avoidanceSet) avoidPath(g *grid.Grid, path []grid.Location, dims grid.Dimensions) {
	for t, loc := range path {
		a.avoidNode(g, Node{Location: loc, Time: t}, dims)
	}

	last := len(path) - 1
	for _, loc := range g.NeighborsDimensioned(path[last], dims) {
		a.finals[loc] = last
	}
	if last > a.maxTime {
		a.maxTime = last
	}
}

func (a *avoidanceSet) avoidNode(g *grid.Grid, n Node, dims grid.Dimensions) {
	for _, loc := range g.NeighborsDimensioned(n.Location, dims) {
		for dt := -1; dt <= 1; dt++ {
			t := n.Time + dt
			if t < 0 {
				continue
			}
			a.present[Node{Location: loc, Time: t}] = struct{}{}
		}
	}
}
