// Package exec defines the Action stream the grid state manager
// executes (§4.1, §6) and the tagged-variant representation that
// carries it. Go has no sum-type library in this pack's dependency
// surface (and none in the wider ecosystem displaces a plain struct for
// this), so Action is a single struct with a Kind tag and the fields
// relevant to that Kind populated. The constructor functions below fill
// exactly the fields each Kind uses; the fields are exported, so nothing
// stops a caller from building a malformed Action by hand.
package exec

import "github.com/pthm-cable/dropletgrid/grid"

// Kind tags which variant an Action carries.
type Kind int

const (
	KindAddDroplet Kind = iota
	KindRemoveDroplet
	KindMix
	KindSplit
	KindUpdateDroplet
	KindMoveDroplet
	KindTick
	KindPing
)

func (k Kind) String() string {
	switch k {
	case KindAddDroplet:
		return "AddDroplet"
	case KindRemoveDroplet:
		return "RemoveDroplet"
	case KindMix:
		return "Mix"
	case KindSplit:
		return "Split"
	case KindUpdateDroplet:
		return "UpdateDroplet"
	case KindMoveDroplet:
		return "MoveDroplet"
	case KindTick:
		return "Tick"
	case KindPing:
		return "Ping"
	default:
		return "Unknown"
	}
}

// Action is one step of the action stream §4.1/§6 describes. Only the
// fields relevant to Kind are meaningful; the rest are zero.
type Action struct {
	Kind Kind

	// AddDroplet, RemoveDroplet, MoveDroplet, Ping
	DropletId  grid.DropletId
	Location   grid.Location
	Dimensions grid.Dimensions
	Volume     float64
	Note       string

	// Mix
	MixIn0, MixIn1, MixOut grid.DropletId

	// Split
	SplitIn, SplitOut0, SplitOut1 grid.DropletId

	// UpdateDroplet
	OldId, NewId grid.DropletId
}

// AddDroplet inserts a new droplet.
func AddDroplet(id grid.DropletId, loc grid.Location, dims grid.Dimensions, volume float64) Action {
	return Action{Kind: KindAddDroplet, DropletId: id, Location: loc, Dimensions: dims, Volume: volume}
}

// RemoveDroplet deletes an existing droplet.
func RemoveDroplet(id grid.DropletId) Action {
	return Action{Kind: KindRemoveDroplet, DropletId: id}
}

// Mix merges two co-located droplets into one.
func Mix(in0, in1, out grid.DropletId) Action {
	return Action{Kind: KindMix, MixIn0: in0, MixIn1: in1, MixOut: out}
}

// Split divides one droplet into two, with volume noise per the
// manager's configured error distribution.
func Split(in, out0, out1 grid.DropletId) Action {
	return Action{Kind: KindSplit, SplitIn: in, SplitOut0: out0, SplitOut1: out1}
}

// UpdateDroplet rewrites a droplet's id. This is the sole sanctioned
// mutation of a droplet's identity (§9).
func UpdateDroplet(oldId, newId grid.DropletId) Action {
	return Action{Kind: KindUpdateDroplet, OldId: oldId, NewId: newId}
}

// MoveDroplet moves a droplet by at most one Manhattan step.
func MoveDroplet(id grid.DropletId, loc grid.Location) Action {
	return Action{Kind: KindMoveDroplet, DropletId: id, Location: loc}
}

// Tick is the barrier action: the manager re-verifies I2 and aborts on
// any detected collision.
func Tick() Action {
	return Action{Kind: KindTick}
}

// Ping is a no-op reserved for observer instrumentation (§9).
func Ping(id grid.DropletId, note string) Action {
	return Action{Kind: KindPing, DropletId: id, Note: note}
}
