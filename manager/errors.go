package manager

import (
	"errors"
	"fmt"
)

// Sentinel errors identify the kind of invariant violation behind an
// InvariantError, so callers that do recover can distinguish them with
// errors.Is without string matching.
var (
	ErrDropletExists   = errors.New("droplet already exists")
	ErrDropletNotFound = errors.New("droplet not found")
	ErrNotCoLocated    = errors.New("droplets are not co-located")
	ErrInvalidMove     = errors.New("move exceeds one cell")
	ErrCollision       = errors.New("collision detected at tick")
)

// InvariantError reports a contract breach by the caller or the planner
// (§7.1): a duplicate or missing droplet id, a non-adjacent move, a
// location-mismatched Mix, or a collision observed at a Tick barrier.
// These are, per spec, non-recoverable — Execute panics with an
// *InvariantError rather than returning one, mirroring the source's use
// of assert!/expect/panic! for the same conditions. InvariantError still
// implements error so a caller that does recover (as this package's
// tests and the router's property tests do) can inspect it with the
// usual errors.Is/As.
type InvariantError struct {
	Err     error
	Context string
}

func (e *InvariantError) Error() string {
	if e.Context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Context)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invariant(err error, context string) *InvariantError {
	return &InvariantError{Err: err, Context: context}
}
