// Package router plans time-indexed, collision-free paths for a set of
// droplets (§4.2): a time-expanded A* per droplet, coordinated through a
// shared avoidance reservation, with randomized reordering on failure.
// The router is a pure function of a grid and a droplet snapshot — it
// never mutates the manager it plans over.
package router

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/dropletgrid/grid"
)

// MaxIterations is the number of reshuffle attempts the router makes
// before giving up (§4.2.4, §7.2): one attempt in the droplets' original
// order, then up to MaxIterations-1 reshuffled retries.
const MaxIterations = 50

// Path is an ordered sequence of locations, starting at a droplet's
// current location, where consecutive entries differ by at most one
// Manhattan step (including the zero-step wait).
type Path []grid.Location

// Router plans multi-droplet routes over a fixed grid topology.
type Router struct {
	grid *grid.Grid
	rng  *rand.Rand
	log  *slog.Logger

	maxIterations int
}

// Option configures a Router.
type Option func(*Router)

// WithRNG overrides the router's shuffle PRNG. The router's own
// determinism does not extend past a single process (§5, §9) — by
// default it seeds from the wall clock — but tests that need
// reproducible routing should supply a fixed-seed *rand.Rand here.
func WithRNG(rng *rand.Rand) Option {
	return func(r *Router) { r.rng = rng }
}

// WithMaxIterations overrides MaxIterations, mainly so tests can bound
// worst-case runtime on deliberately infeasible instances.
func WithMaxIterations(n int) Option {
	return func(r *Router) { r.maxIterations = n }
}

// WithLogger attaches a logger the router uses to trace retries.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router) { r.log = log }
}

// New creates a Router over the given grid topology.
func New(g *grid.Grid, opts ...Option) *Router {
	r := &Router{
		grid:          g,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		maxIterations: MaxIterations,
		log:           slog.New(slog.NewTextHandler(discard{}, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Droplet is the minimal view of a droplet the router needs: where it
// is, where (if anywhere) it should end up, its footprint, and the tag
// that exempts it from colliding with droplets in the same group.
type Droplet struct {
	Id             grid.DropletId
	Location       grid.Location
	Destination    *grid.Location
	Dimensions     grid.Dimensions
	CollisionGroup int
}

// FromGridDroplets adapts a manager's live droplet set into the slice
// Route expects, so callers don't need to hand-build router.Droplet
// values from a manager.Manager snapshot.
func FromGridDroplets(ds map[grid.DropletId]*grid.Droplet) []Droplet {
	out := make([]Droplet, 0, len(ds))
	for _, d := range ds {
		out = append(out, Droplet{
			Id:             d.Id,
			Location:       d.Location,
			Destination:    d.Destination,
			Dimensions:     d.Dimensions,
			CollisionGroup: d.CollisionGroup,
		})
	}
	return out
}

// Route plans a collision-free path for every given droplet (§4.2.4). It
// retries up to the router's configured iteration count, reshuffling
// droplet order each time, and returns the first successful assignment.
// ok is false if every iteration failed.
func (r *Router) Route(droplets []Droplet) (map[grid.DropletId]Path, bool) {
	order := append([]Droplet(nil), droplets...)
	for iter := 0; iter < r.maxIterations; iter++ {
		if iter > 0 {
			r.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		if paths, ok := r.routeMany(order); ok {
			return paths, true
		}
		r.log.Debug("route attempt failed", "iteration", iter)
	}
	return nil, false
}

func (r *Router) routeMany(droplets []Droplet) (map[grid.DropletId]Path, bool) {
	avoid := newAvoidanceSet()
	numCells := r.grid.NumCells()

	paths := make(map[grid.DropletId]Path, len(droplets))
	priorLen := 0

	for _, d := range droplets {
		horizon := numCells + priorLen
		path, ok := r.routeDroplet(d, horizon, avoid)
		if !ok {
			return nil, false
		}

		priorLen += len(path)

		avoid.avoidPath(r.grid, path, d.Dimensions)
		paths[d.Id] = path
	}

	return paths, true
}

func (r *Router) routeDroplet(d Droplet, maxTime int, avoid *avoidanceSet) ([]grid.Location, bool) {
	dest := d.Location
	if d.Destination != nil {
		dest = *d.Destination
	}

	start := Node{Location: d.Location, Time: 0}
	nextFn := func(n Node) []weightedNode {
		return avoid.filter(expand(n, r.grid))
	}
	heuristic := func(n Node) int { return n.Location.Distance(dest) }
	doneFn := func(n Node) bool {
		return n.Location == dest && !avoid.wouldFinallyCollide(n)
	}

	return routeOne(start, maxTime, nextFn, heuristic, doneFn)
}
