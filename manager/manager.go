// Package manager is the grid state manager (§4.1): the authoritative
// holder of live droplets, the only place actions are executed, and the
// sole enforcer of the spatial and semantic invariants in §3.
package manager

import (
	"fmt"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/dropletgrid/exec"
	"github.com/pthm-cable/dropletgrid/grid"
	"github.com/pthm-cable/dropletgrid/process"
)

// DefaultSeed is the fixed 64-bit seed the manager's PRNG uses so that,
// given an identical action stream and configuration, split outcomes are
// bit-identical across runs (§4.1 Determinism, §5).
const DefaultSeed uint64 = 0

// ErrorOptions configures the manager's modeled error sources.
type ErrorOptions struct {
	// SplitErrorStdev is sigma of the normal distribution split-volume
	// error is sampled from. Zero disables noise: splits are exact.
	SplitErrorStdev float64
}

// Manager holds the live droplet set for one simulation and applies
// every mutation through Execute. It is not safe for concurrent use —
// per §5 the core is single-threaded and synchronous.
type Manager struct {
	grid     *grid.Grid
	droplets map[grid.DropletId]*grid.Droplet

	rng   *rand.Rand
	sigma float64

	log *slog.Logger
}

// New creates a Manager over the given grid topology with the given
// error options. The embedded PRNG is always seeded from DefaultSeed;
// the manager's determinism does not take a caller-supplied seed because
// §4.1 specifies a fixed constant, not a configurable one.
func New(g *grid.Grid, opts ErrorOptions, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(nilWriter{}, nil))
	}
	return &Manager{
		grid:     g,
		droplets: make(map[grid.DropletId]*grid.Droplet),
		rng:      rand.New(rand.NewSource(int64(DefaultSeed))),
		sigma:    opts.SplitErrorStdev,
		log:      log,
	}
}

type nilWriter struct{}

func (nilWriter) Write(p []byte) (int, error) { return len(p), nil }

// Grid returns the topology this manager is routing over.
func (m *Manager) Grid() *grid.Grid { return m.grid }

// Droplets returns the live droplet set, keyed by id. The returned map
// is owned by the manager; callers must not add, remove or re-key
// entries, and change ids, locations and volumes only through Execute.
// Destination and CollisionGroup are not set by any Action; callers
// assign them on the returned droplets directly.
func (m *Manager) Droplets() map[grid.DropletId]*grid.Droplet {
	return m.droplets
}

func (m *Manager) insert(d *grid.Droplet) {
	if _, exists := m.droplets[d.Id]; exists {
		panic(invariant(ErrDropletExists, fmt.Sprintf("id=%+v", d.Id)))
	}
	m.droplets[d.Id] = d
}

func (m *Manager) remove(id grid.DropletId) *grid.Droplet {
	d, ok := m.droplets[id]
	if !ok {
		panic(invariant(ErrDropletNotFound, fmt.Sprintf("id=%+v", id)))
	}
	delete(m.droplets, id)
	return d
}

// Execute applies one action to the droplet set. Invariant violations
// (§7.1) panic with an *InvariantError; routing infeasibility is not
// modeled here, it lives entirely in the router package.
func (m *Manager) Execute(a exec.Action) {
	switch a.Kind {
	case exec.KindAddDroplet:
		m.insert(&grid.Droplet{
			Id:         a.DropletId,
			Location:   a.Location,
			Dimensions: a.Dimensions,
			Volume:     a.Volume,
		})

	case exec.KindRemoveDroplet:
		m.remove(a.DropletId)

	case exec.KindMix:
		d0 := m.remove(a.MixIn0)
		d1 := m.remove(a.MixIn1)
		if d0.Location != d1.Location {
			panic(invariant(ErrNotCoLocated, fmt.Sprintf("mix %+v at %v, %+v at %v", a.MixIn0, d0.Location, a.MixIn1, d1.Location)))
		}
		m.insert(&grid.Droplet{
			Id:         a.MixOut,
			Location:   d0.Location,
			Dimensions: grid.UnitDimensions,
			Volume:     d0.Volume + d1.Volume,
		})

	case exec.KindSplit:
		d := m.remove(a.SplitIn)
		half := d.Volume / 2.0
		eps := m.sampleSplitError(d.Volume)
		m.insert(&grid.Droplet{
			Id:         a.SplitOut0,
			Location:   d.Location,
			Dimensions: grid.UnitDimensions,
			Volume:     half - eps,
		})
		m.insert(&grid.Droplet{
			Id:         a.SplitOut1,
			Location:   d.Location,
			Dimensions: grid.UnitDimensions,
			Volume:     half + eps,
		})

	case exec.KindUpdateDroplet:
		d := m.remove(a.OldId)
		d.Id = a.NewId
		m.insert(d)

	case exec.KindMoveDroplet:
		d, ok := m.droplets[a.DropletId]
		if !ok {
			panic(invariant(ErrDropletNotFound, fmt.Sprintf("id=%+v", a.DropletId)))
		}
		if d.Location.Distance(a.Location) > 1 {
			panic(invariant(ErrInvalidMove, fmt.Sprintf("id=%+v from %v to %v", a.DropletId, d.Location, a.Location)))
		}
		d.Location = a.Location

	case exec.KindTick:
		if id1, id2, ok := m.Collisions(); ok {
			m.log.Error("collision at tick", "id1", id1, "id2", id2)
			panic(invariant(ErrCollision, fmt.Sprintf("%+v vs %+v", id1, id2)))
		}

	case exec.KindPing:
		// Reserved for observer instrumentation; no-op at the core (§9).
	}
}

// sampleSplitError draws epsilon from Normal(0, sigma), clamped to
// [-volume/2, +volume/2] so both outputs (volume/2 -+ epsilon) stay in
// [0, volume] (§4.1, §7). With sigma == 0 the sample is exactly zero and
// the split is exact.
func (m *Manager) sampleSplitError(volume float64) float64 {
	if m.sigma <= 0 {
		return 0
	}
	dist := distuv.Normal{Mu: 0, Sigma: m.sigma, Src: m.rng}
	eps := dist.Rand()
	bound := volume / 2.0
	if eps > bound {
		eps = bound
	}
	if eps < -bound {
		eps = -bound
	}
	return eps
}

// Collisions scans unordered pairs of droplets with distinct collision
// groups and returns the first pair whose inflated footprints overlap
// (§4.1). The second droplet's raw footprint is what is tested against
// the first's inflated one — a pair collides iff either direction hits.
func (m *Manager) Collisions() (grid.DropletId, grid.DropletId, bool) {
	return m.scanPairs(false)
}

// DestinationCollisions applies the same test to destination cells,
// skipping droplets without a destination (§4.1). Callers use this to
// reject infeasible problem instances before routing.
func (m *Manager) DestinationCollisions() (grid.DropletId, grid.DropletId, bool) {
	return m.scanPairs(true)
}

func (m *Manager) scanPairs(useDestination bool) (grid.DropletId, grid.DropletId, bool) {
	ids := make([]grid.DropletId, 0, len(m.droplets))
	for id := range m.droplets {
		ids = append(ids, id)
	}
	for i := 0; i < len(ids); i++ {
		d1 := m.droplets[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			d2 := m.droplets[ids[j]]
			if d1.CollisionGroup == d2.CollisionGroup {
				continue
			}

			var loc1, loc2 grid.Location
			if useDestination {
				if d1.Destination == nil || d2.Destination == nil {
					continue
				}
				loc1, loc2 = *d1.Destination, *d2.Destination
			} else {
				loc1, loc2 = d1.Location, d2.Location
			}

			inflated1 := m.grid.NeighborsDimensioned(loc1, d1.Dimensions)
			raw2 := grid.Footprint(loc2, d2.Dimensions)
			if footprintsOverlap(inflated1, raw2) {
				return ids[i], ids[j], true
			}

			inflated2 := m.grid.NeighborsDimensioned(loc2, d2.Dimensions)
			raw1 := grid.Footprint(loc1, d1.Dimensions)
			if footprintsOverlap(inflated2, raw1) {
				return ids[i], ids[j], true
			}
		}
	}
	var zero grid.DropletId
	return zero, zero, false
}

func footprintsOverlap(inflated, raw []grid.Location) bool {
	set := make(map[grid.Location]struct{}, len(inflated))
	for _, l := range inflated {
		set[l] = struct{}{}
	}
	for _, l := range raw {
		if _, ok := set[l]; ok {
			return true
		}
	}
	return false
}

// Info projects the live droplets to their externally-observable form,
// optionally filtered to a single owning process.
func (m *Manager) Info(processFilter *process.Id) []grid.Info {
	out := make([]grid.Info, 0, len(m.droplets))
	for _, d := range m.droplets {
		if processFilter != nil && d.Id.ProcessId != *processFilter {
			continue
		}
		out = append(out, d.Info())
	}
	return out
}
