package router

import (
	"sort"

	"github.com/pthm-cable/dropletgrid/exec"
	"github.com/pthm-cable/dropletgrid/grid"
)

// PathsToActions is the Action Translator (§4.3): it flattens a
// DropletId -> Path map into a single tick-ordered action stream. For
// tick i it emits a MoveDroplet for every droplet whose path has an
// entry at index i, then one Tick barrier. Droplets with shorter paths
// simply stop receiving moves once they're at their destination. The
// first MoveDroplet of each path re-states the droplet's starting
// location, a valid zero-distance move.
//
// Droplet iteration within a tick is ordered by id so the emitted stream
// is reproducible across runs; the manager does not care about ordering
// among droplets at the same tick since MoveDroplet only ever touches
// one droplet at a time.
func PathsToActions(paths map[grid.DropletId]Path) []exec.Action {
	ids := make([]grid.DropletId, 0, len(paths))
	maxLen := 0
	for id, p := range paths {
		ids = append(ids, id)
		if len(p) > maxLen {
			maxLen = len(p)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].ProcessId != ids[j].ProcessId {
			return ids[i].ProcessId < ids[j].ProcessId
		}
		return ids[i].Local < ids[j].Local
	})

	actions := make([]exec.Action, 0, maxLen*(len(ids)+1))
	for i := 0; i < maxLen; i++ {
		for _, id := range ids {
			path := paths[id]
			if i < len(path) {
				actions = append(actions, exec.MoveDroplet(id, path[i]))
			}
		}
		actions = append(actions, exec.Tick())
	}
	return actions
}
