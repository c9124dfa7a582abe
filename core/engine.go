package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/observability"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// Sentinel errors for scene parameters that cannot produce a run.
// Malformed geometry never errs; it degrades (see AgentSpawner and
// PathPlanner).
var (
	ErrInvalidTimeStep = errors.New("time step must be positive")
	ErrInvalidDuration = errors.New("simulation duration must be positive")
)

// EngineConfig bundles all engine tunables.
type EngineConfig struct {
	// Seed makes spawning and path jitter reproducible. Workers derive
	// their own rand sources from it, so results do not depend on
	// goroutine scheduling.
	Seed int64

	// StrictSpawning selects the strict spawn mode (larger obstacle
	// clearance, more retries).
	StrictSpawning bool

	Spawner    SpawnerConfig
	Planner    PlannerConfig
	Kinematics KinematicsConfig

	// PathBudgetRatio scales the per-path point budget relative to the
	// frame count. Default 0.7.
	PathBudgetRatio float64

	// Workers bounds parallel path planning. Default GOMAXPROCS.
	Workers int
}

// DefaultEngineConfig returns a lenient-mode configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Spawner:         DefaultSpawnerConfig(),
		Planner:         DefaultPlannerConfig(),
		Kinematics:      DefaultKinematicsConfig(),
		PathBudgetRatio: 0.7,
	}
}

// Engine is the fallback simulation core: it spawns agents, plans their
// paths, and synthesizes the frame sequence for one scene. An Engine holds
// no state between runs.
type Engine struct {
	cfg     EngineConfig
	log     logging.Logger
	metrics *observability.SimulationCollector

	frameListeners []func(int, *model.Frame)
}

// NewEngine constructs an engine. Logger and metrics may be nil.
func NewEngine(cfg EngineConfig, log logging.Logger, metrics *observability.SimulationCollector) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	if cfg.PathBudgetRatio <= 0 {
		cfg.PathBudgetRatio = 0.7
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Spawner == (SpawnerConfig{}) {
		if cfg.StrictSpawning {
			cfg.Spawner = StrictSpawnerConfig()
		} else {
			cfg.Spawner = DefaultSpawnerConfig()
		}
	}
	if cfg.Planner == (PlannerConfig{}) {
		cfg.Planner = DefaultPlannerConfig()
	}
	if cfg.Kinematics == (KinematicsConfig{}) {
		cfg.Kinematics = DefaultKinematicsConfig()
	}
	return &Engine{cfg: cfg, log: log, metrics: metrics}
}

// RegisterFrameListener adds a callback invoked for every synthesized
// frame, in order. Listeners must not retain the frame pointer.
func (e *Engine) RegisterFrameListener(fn func(index int, frame *model.Frame)) {
	e.frameListeners = append(e.frameListeners, fn)
}

// Run executes one simulation for the scene and returns the full frame
// sequence. The scene is borrowed read-only; nothing persists between
// calls.
func (e *Engine) Run(ctx context.Context, scene *model.Scene) (*model.SimulationResult, error) {
	started := time.Now()

	if scene.TimeStep <= 0 {
		e.metrics.ObserveRun(string(scene.Profile), "rejected", 0, 0, 0)
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTimeStep, scene.TimeStep)
	}
	if scene.Duration <= 0 {
		e.metrics.ObserveRun(string(scene.Profile), "rejected", 0, 0, 0)
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, scene.Duration)
	}

	index := NewSceneIndex(scene)
	router := NewWaypointRouter(index)

	spawner := NewAgentSpawner(index, e.cfg.Spawner, rand.New(rand.NewSource(e.cfg.Seed)))
	agents := spawner.Spawn()

	frameCount := int(math.Ceil(scene.Duration / scene.TimeStep))
	budget := int(e.cfg.PathBudgetRatio * float64(frameCount))
	if budget < 2 {
		budget = 2
	}

	e.planPaths(ctx, index, router, agents, budget)

	e.log.Info(ctx, "scene prepared",
		logging.Int("agents", len(agents)),
		logging.Int("frames", frameCount),
		logging.String("model", string(scene.Profile)),
	)

	kin := NewKinematicModel(scene.Profile, e.cfg.Kinematics)

	frames := make([]model.Frame, 0, frameCount)
	for f := 0; f < frameCount; f++ {
		if err := ctx.Err(); err != nil {
			e.metrics.ObserveRun(string(scene.Profile), "canceled", 0, 0, 0)
			return nil, err
		}

		t := float64(f) / float64(frameCount)
		s := kin.Progress(t, scene.SpeedFactor)

		frame := model.Frame{
			Time:   float64(f) * scene.TimeStep,
			Agents: make([]model.AgentState, 0, len(agents)),
		}
		for _, a := range agents {
			frame.Agents = append(frame.Agents, sampleAgent(a, s, scene))
		}

		for _, fn := range e.frameListeners {
			fn(f, &frame)
		}
		frames = append(frames, frame)
	}

	e.metrics.ObserveRun(string(scene.Profile), "ok", time.Since(started), len(agents), len(frames))

	return &model.SimulationResult{
		Frames:     frames,
		ModelName:  scene.Profile,
		Duration:   scene.Duration,
		TimeStep:   scene.TimeStep,
		AgentCount: len(agents),
	}, nil
}

// planPaths plans every agent's path. Planning is embarrassingly parallel:
// the scene index and router are read-only, and each worker owns its
// agents and rand source outright.
func (e *Engine) planPaths(ctx context.Context, index *SceneIndex, router *WaypointRouter, agents []*model.Agent, budget int) {
	workers := e.cfg.Workers
	if workers > len(agents) {
		workers = len(agents)
	}
	if workers <= 1 {
		for i, a := range agents {
			rng := rand.New(rand.NewSource(e.cfg.Seed + 1 + int64(i)))
			planner := NewPathPlanner(index, router, e.cfg.Planner, rng)
			var strategy PlanStrategy
			a.Path, strategy = planner.Plan(a.Position, a.Target, budget)
			e.metrics.ObserveStrategy(string(strategy))
		}
		return
	}

	var wg sync.WaitGroup
	jobs := make(chan int)

	strategies := make([]PlanStrategy, len(agents))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// A per-agent rand source keeps runs reproducible
				// no matter which worker picks the job up.
				rng := rand.New(rand.NewSource(e.cfg.Seed + 1 + int64(i)))
				planner := NewPathPlanner(index, router, e.cfg.Planner, rng)
				agents[i].Path, strategies[i] = planner.Plan(agents[i].Position, agents[i].Target, budget)
			}
		}()
	}
	for i := range agents {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, s := range strategies {
		e.metrics.ObserveStrategy(string(s))
	}
}

// sampleAgent indexes an agent's cached path at progress s and derives the
// instantaneous velocity as the forward finite difference.
func sampleAgent(a *model.Agent, s float64, scene *model.Scene) model.AgentState {
	state := model.AgentState{
		ID:       a.ID,
		Position: a.Position,
		Radius:   a.Radius,
	}
	if len(a.Path) == 0 {
		return state
	}

	i := int(s * float64(len(a.Path)))
	if i >= len(a.Path) {
		i = len(a.Path) - 1
	}
	state.Position = a.Path[i]

	// Frozen agents and agents at path end have zero velocity.
	if s > 0 && scene.SpeedFactor > 0 && i+1 < len(a.Path) {
		state.Velocity = a.Path[i+1].Sub(a.Path[i]).Scale(1 / scene.TimeStep)
	}
	return state
}
