// Package grid holds the data model shared by the grid state manager and
// the router: cell coordinates, the droplets that occupy them, and the
// grid topology itself.
package grid

// Location is an integer cell coordinate (y, x). The same type doubles as
// Dimensions, a non-negative (height, width) extent anchored at a
// droplet's Location, rather than introducing a second near-identical
// type.
type Location struct {
	Y, X int
}

// Dimensions is a Location repurposed as an extent. Kept as a distinct
// name at call sites for readability; it is the same underlying type.
type Dimensions = Location

// Distance returns the Manhattan (L1) distance between two locations.
func (l Location) Distance(o Location) int {
	return absInt(l.Y-o.Y) + absInt(l.X-o.X)
}

// Add returns the component-wise sum of l and o.
func (l Location) Add(o Location) Location {
	return Location{Y: l.Y + o.Y, X: l.X + o.X}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Footprint returns the set of cells a droplet anchored at loc with the
// given dimensions occupies: the dims.Y x dims.X rectangle with loc at
// its top-left corner. This is the "raw footprint" of §3/§4.1 — it does
// not include the 1-cell halo that neighbors-dimensioned inflation adds.
func Footprint(loc Location, dims Dimensions) []Location {
	h, w := dims.Y, dims.X
	if h <= 0 {
		h = 1
	}
	if w <= 0 {
		w = 1
	}
	cells := make([]Location, 0, h*w)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			cells = append(cells, Location{Y: loc.Y + dy, X: loc.X + dx})
		}
	}
	return cells
}
