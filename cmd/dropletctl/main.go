// Command dropletctl is the runnable surface over the core packages
// (§1): it loads a grid topology and a scenario of droplets, runs the
// Manager + Router + Translator loop to completion, and writes the
// resulting droplet trace to CSV when --out is given or telemetry is
// enabled in the config. It is explicitly out-of-core: the
// packages it wires together have no dependency on it.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/dropletgrid/config"
	"github.com/pthm-cable/dropletgrid/exec"
	"github.com/pthm-cable/dropletgrid/grid"
	"github.com/pthm-cable/dropletgrid/manager"
	"github.com/pthm-cable/dropletgrid/observer"
	"github.com/pthm-cable/dropletgrid/process"
	"github.com/pthm-cable/dropletgrid/router"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	gridPath := flag.String("grid", "", "Grid topology YAML file (required)")
	scenarioPath := flag.String("scenario", "", "Scenario YAML file listing droplets to route (required)")
	outPath := flag.String("out", "", "CSV output path (empty = use config's telemetry.output_path if telemetry.enabled)")
	jsonLogs := flag.Bool("json-logs", false, "Emit structured logs as JSON instead of text")
	flag.Parse()

	if *gridPath == "" || *scenarioPath == "" {
		log.Fatal("both --grid and --scenario are required")
	}

	var handler slog.Handler
	if *jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	g, err := grid.Load(*gridPath)
	if err != nil {
		log.Fatalf("loading grid: %v", err)
	}

	scenario, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("loading scenario: %v", err)
	}

	path := *outPath
	if path == "" && cfg.Telemetry.Enabled {
		path = cfg.Telemetry.OutputPath
	}
	var obs *observer.Observer
	if path != "" {
		obs, err = observer.New(path)
		if err != nil {
			log.Fatalf("opening observer output: %v", err)
		}
	}
	defer obs.Close()

	if err := run(g, scenario, cfg, logger, obs); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

// scenarioDroplet is the YAML shape of one droplet entry in a scenario
// file: its starting location, footprint, volume, optional destination,
// and collision group.
type scenarioDroplet struct {
	Id             uint64          `yaml:"id"`
	Location       grid.Location   `yaml:"location"`
	Dimensions     grid.Dimensions `yaml:"dimensions"`
	Volume         float64         `yaml:"volume"`
	Destination    *grid.Location  `yaml:"destination"`
	CollisionGroup int             `yaml:"collision_group"`
}

type scenarioFile struct {
	Droplets []scenarioDroplet `yaml:"droplets"`
}

func loadScenario(path string) (scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("reading scenario file: %w", err)
	}
	var s scenarioFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return scenarioFile{}, fmt.Errorf("parsing scenario file: %w", err)
	}
	return s, nil
}

// run builds the manager, routes the scenario's droplets to their
// destinations, executes the resulting action stream, and records one
// observer snapshot per tick.
func run(g *grid.Grid, scenario scenarioFile, cfg *config.Config, logger *slog.Logger, obs *observer.Observer) error {
	pid := process.New()
	m := manager.New(g, manager.ErrorOptions{SplitErrorStdev: cfg.Error.SplitErrorStdev}, logger)

	for _, sd := range scenario.Droplets {
		id := grid.DropletId{Local: sd.Id, ProcessId: pid}
		dims := sd.Dimensions
		if dims == (grid.Dimensions{}) {
			dims = grid.UnitDimensions
		}
		m.Execute(exec.AddDroplet(id, sd.Location, dims, sd.Volume))
		if d, ok := m.Droplets()[id]; ok {
			d.Destination = sd.Destination
			d.CollisionGroup = sd.CollisionGroup
		}
	}

	if id1, id2, collide := m.DestinationCollisions(); collide {
		return fmt.Errorf("infeasible scenario: destinations of %+v and %+v collide", id1, id2)
	}

	routerOpts := []router.Option{router.WithLogger(logger)}
	if cfg.Router.MaxIterations > 0 {
		routerOpts = append(routerOpts, router.WithMaxIterations(cfg.Router.MaxIterations))
	}
	if cfg.Router.DeterministicSeed != nil {
		routerOpts = append(routerOpts, router.WithRNG(rand.New(rand.NewSource(*cfg.Router.DeterministicSeed))))
	}
	r := router.New(g, routerOpts...)

	paths, ok := r.Route(router.FromGridDroplets(m.Droplets()))
	if !ok {
		return fmt.Errorf("router failed to find a collision-free plan within %d attempts", cfg.Router.MaxIterations)
	}

	tick := 0
	if err := obs.WriteTick(tick, m.Info(nil)); err != nil {
		return fmt.Errorf("writing initial observer snapshot: %w", err)
	}

	for _, a := range router.PathsToActions(paths) {
		m.Execute(a)
		if a.Kind == exec.KindTick {
			tick++
			if err := obs.WriteTick(tick, m.Info(nil)); err != nil {
				return fmt.Errorf("writing observer snapshot at tick %d: %w", tick, err)
			}
		}
	}

	logger.Info("routing complete", "droplets", len(paths), "ticks", tick)
	return nil
}
