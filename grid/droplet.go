package grid

import "github.com/pthm-cable/dropletgrid/process"

// DropletId globally identifies a droplet. Two ids are equal iff both
// components match; Go's comparable structs give us that for free, so
// DropletId can be used directly as a map key.
type DropletId struct {
	Local     uint64
	ProcessId process.Id
}

// Droplet is the moving entity the grid state manager tracks.
type Droplet struct {
	Id         DropletId
	Location   Location
	Dimensions Dimensions

	// Volume is strictly non-negative under I3.
	Volume float64

	// Destination is the cell this droplet is routed toward. A nil
	// destination means "stay put" — the router treats the droplet's
	// current location as its own goal.
	Destination *Location

	// CollisionGroup tags droplets that are permitted to overlap, e.g. a
	// pair that is merging. Zero is not special; it is only ever compared
	// for equality against other droplets' groups.
	CollisionGroup int
}

// UnitDimensions is the (1,1) extent every Mix and Split output carries.
var UnitDimensions = Dimensions{Y: 1, X: 1}

// Footprint returns the raw set of cells this droplet occupies.
func (d *Droplet) Footprint() []Location {
	return Footprint(d.Location, d.Dimensions)
}

// Info projects the externally-observable fields of a droplet. This is
// the boundary the external observer layer (and the CLI / CSV export in
// this repo) sees; it never exposes CollisionGroup, which is purely an
// internal routing/collision concept.
type Info struct {
	Id          DropletId
	Location    Location
	Volume      float64
	Dimensions  Dimensions
	Destination *Location
}

// Info projects a Droplet to its externally-observable Info.
func (d *Droplet) Info() Info {
	return Info{
		Id:          d.Id,
		Location:    d.Location,
		Volume:      d.Volume,
		Dimensions:  d.Dimensions,
		Destination: d.Destination,
	}
}
