package router

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/dropletgrid/exec"
	"github.com/pthm-cable/dropletgrid/grid"
	"github.com/pthm-cable/dropletgrid/gridtest"
	"github.com/pthm-cable/dropletgrid/manager"
	"github.com/pthm-cable/dropletgrid/process"
)

// TestRoutePropertiesOnRandomGrids exercises P1 (no-collision after
// execution) and P2 (reachability) across a handful of randomly
// generated connected grids, not just the hand-built fixtures used
// elsewhere in this package.
func TestRoutePropertiesOnRandomGrids(t *testing.T) {
	seedRng := rand.New(rand.NewSource(99))
	pid := process.Id(1)

	for trial := 0; trial < 8; trial++ {
		opts := gridtest.DefaultOptions(6, 6)
		opts.ObstacleThreshold = 0.4
		opts.MaxAttempts = 100
		g, ok := gridtest.Random(seedRng, opts)
		if !ok {
			t.Skip("no connected random grid produced within MaxAttempts")
		}

		cells := g.Locations()
		if len(cells) < 2 {
			continue
		}

		start1, start2 := cells[0], cells[len(cells)-1]
		dest1, dest2 := cells[len(cells)-1], cells[0]
		if start1 == start2 {
			continue
		}

		droplets := []Droplet{
			{
				Id:             grid.DropletId{Local: 1, ProcessId: pid},
				Location:       start1,
				Destination:    &dest1,
				Dimensions:     grid.UnitDimensions,
				CollisionGroup: 1,
			},
			{
				Id:             grid.DropletId{Local: 2, ProcessId: pid},
				Location:       start2,
				Destination:    &dest2,
				Dimensions:     grid.UnitDimensions,
				CollisionGroup: 2,
			},
		}

		r := New(g, WithRNG(rand.New(rand.NewSource(int64(trial)))))
		paths, ok := r.Route(droplets)
		if !ok {
			// Routing infeasibility is a recoverable outcome, not a
			// property violation (§7.2) — skip to the next random grid.
			continue
		}

		m := manager.New(g, manager.ErrorOptions{}, nil)
		for _, d := range droplets {
			m.Execute(exec.AddDroplet(d.Id, d.Location, d.Dimensions, 1.0))
			m.Droplets()[d.Id].CollisionGroup = d.CollisionGroup
		}

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					t.Fatalf("trial %d: P1 violated, execution collided: %v", trial, rec)
				}
			}()
			for _, a := range PathsToActions(paths) {
				m.Execute(a)
			}
		}()

		// P2: reachability.
		if got := m.Droplets()[droplets[0].Id].Location; got != dest1 {
			t.Fatalf("trial %d: droplet 1 expected at %v, got %v", trial, dest1, got)
		}
		if got := m.Droplets()[droplets[1].Id].Location; got != dest2 {
			t.Fatalf("trial %d: droplet 2 expected at %v, got %v", trial, dest2, got)
		}
	}
}
