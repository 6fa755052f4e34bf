// Package gridtest generates random connected grid topologies for
// property-based tests. It uses OpenSimplex noise as an obstacle mask:
// cells where the noise exceeds a threshold are punched out, and the
// result is retried with a fresh seed until it is fully connected.
package gridtest

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/dropletgrid/grid"
)

// Options configures the random grid generator.
type Options struct {
	Height, Width int

	// ObstacleThreshold, normally in [0,1]: noise values (which lie in
	// [0,1]) above this are punched out as obstacles. Zero means no
	// obstacles (a fully open rectangle); a negative value punches out
	// every cell.
	ObstacleThreshold float64

	// Scale controls the spatial frequency of the noise field; smaller
	// values produce larger, smoother obstacle blobs.
	Scale float64

	// MaxAttempts bounds how many seeds the generator tries before giving
	// up on producing a connected grid at the requested obstacle density.
	MaxAttempts int
}

// DefaultOptions returns sane defaults for a Height x Width grid with no
// obstacles.
func DefaultOptions(height, width int) Options {
	return Options{
		Height:            height,
		Width:             width,
		ObstacleThreshold: 0,
		Scale:             6.0,
		MaxAttempts:       64,
	}
}

// Random builds a grid.Grid from rng, retrying with fresh noise seeds
// until the result is connected or MaxAttempts is exhausted. ok is false
// if no connected grid could be produced — callers in a property test
// should typically treat that as "skip this case", not a hard failure.
func Random(rng *rand.Rand, opts Options) (*grid.Grid, bool) {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		seed := rng.Int63()
		g := build(seed, opts)
		if g.IsConnected() && g.NumCells() > 0 {
			return g, true
		}
	}
	return nil, false
}

func build(seed int64, opts Options) *grid.Grid {
	noise := opensimplex.New(seed)

	var cells []grid.Location
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			if opts.ObstacleThreshold != 0 {
				n := (noise.Eval2(float64(x)/opts.Scale, float64(y)/opts.Scale) + 1) * 0.5
				if n > opts.ObstacleThreshold {
					continue
				}
			}
			cells = append(cells, grid.Location{Y: y, X: x})
		}
	}
	return grid.New(cells)
}
