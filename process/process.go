// Package process models the caller-assigned process identifiers that tag
// droplets to their owning high-level program. The core grid and routing
// packages only ever compare process ids for equality. This package offers
// a simple allocator (New); naming and lifecycle of processes are owned by
// callers (the planner/placer scaffolding).
package process

import "sync/atomic"

// Id identifies a process that owns one or more droplets.
type Id uint64

// counter backs the package-level allocator. It starts at zero so the
// first allocated id is 1, leaving the zero value of Id free to mean
// "unset" for callers that embed Id in a struct without using New.
var counter uint64

// New allocates a fresh, process-wide unique Id.
//
// This is a convenience for callers (tests, the CLI) that don't already
// have an external process-id scheme; it is not used by the grid or
// router packages, which only ever receive ids, never mint them.
func New() Id {
	return Id(atomic.AddUint64(&counter, 1))
}
