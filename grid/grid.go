package grid

// Grid is the electrode topology: the set of valid cells, plus the
// adjacency oracle the router and the state manager consult. It is the
// "external collaborator" of §1 — consumed by the core, never mutated by
// it — but this package provides a concrete, dependency-free
// implementation so the core is runnable and testable on its own.
type Grid struct {
	cells map[Location]struct{}
}

// NewRect builds a fully-connected rectangular grid of the given height
// and width, with every cell in [0,h) x [0,w) valid. This is the grid
// used by the trivial and crossing scenarios (S1, S2).
func NewRect(height, width int) *Grid {
	cells := make(map[Location]struct{}, height*width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cells[Location{Y: y, X: x}] = struct{}{}
		}
	}
	return &Grid{cells: cells}
}

// New builds a grid from an explicit set of valid cells, e.g. one
// materialized from a Spec (see Spec.ToGrid) or generated by gridtest.
func New(cells []Location) *Grid {
	g := &Grid{cells: make(map[Location]struct{}, len(cells))}
	for _, c := range cells {
		g.cells[c] = struct{}{}
	}
	return g
}

// Contains reports whether loc is a valid cell.
func (g *Grid) Contains(loc Location) bool {
	_, ok := g.cells[loc]
	return ok
}

// Locations returns every valid cell. Order is unspecified.
func (g *Grid) Locations() []Location {
	out := make([]Location, 0, len(g.cells))
	for loc := range g.cells {
		out = append(out, loc)
	}
	return out
}

// NumCells returns the number of valid cells, used by the router to size
// its search horizon (§4.2.3).
func (g *Grid) NumCells() int {
	return len(g.cells)
}

var cardinalOffsets = [4]Location{
	{Y: -1, X: 0},
	{Y: 1, X: 0},
	{Y: 0, X: -1},
	{Y: 0, X: 1},
}

// Neighbors4 returns the up-to-4 cardinal neighbors of loc that are
// valid cells.
func (g *Grid) Neighbors4(loc Location) []Location {
	out := make([]Location, 0, 4)
	for _, off := range cardinalOffsets {
		n := loc.Add(off)
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// NeighborsDimensioned returns the inflated footprint of a droplet
// anchored at loc with the given dimensions: every valid cell in the
// dims rectangle, widened by one cell in every direction (the halo that
// models the physical keep-out margin between droplets, I2). Cells
// outside the grid are simply not present in the result — the halo
// never extends "into" nonexistent electrodes.
func (g *Grid) NeighborsDimensioned(loc Location, dims Dimensions) []Location {
	h, w := dims.Y, dims.X
	if h <= 0 {
		h = 1
	}
	if w <= 0 {
		w = 1
	}
	out := make([]Location, 0, (h+2)*(w+2))
	for dy := -1; dy <= h; dy++ {
		for dx := -1; dx <= w; dx++ {
			cand := Location{Y: loc.Y + dy, X: loc.X + dx}
			if g.Contains(cand) {
				out = append(out, cand)
			}
		}
	}
	return out
}

// IsConnected reports whether every valid cell is reachable from every
// other valid cell via Neighbors4. An empty grid is trivially connected.
func (g *Grid) IsConnected() bool {
	if len(g.cells) == 0 {
		return true
	}
	var start Location
	for loc := range g.cells {
		start = loc
		break
	}
	seen := map[Location]struct{}{start: {}}
	queue := []Location{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors4(cur) {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return len(seen) == len(g.cells)
}
