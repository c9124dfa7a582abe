package core

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// corridorScene is a start point at the origin walking to an exit whose
// center is (100, 0), with whole-second frames.
func corridorScene() *model.Scene {
	return &model.Scene{
		Elements: []model.Element{
			{ID: "start", Kind: model.KindStartPoint, Points: []model.Point{pt(0, 0)}},
			{ID: "exit", Kind: model.KindExitPoint, Points: []model.Point{pt(90, 0), pt(110, 0)}},
		},
		Duration:    10,
		TimeStep:    1,
		SpeedFactor: 1,
		Profile:     model.ProfileSpeed,
	}
}

func TestRun_RejectsInvalidParameters(t *testing.T) {
	e := NewEngine(DefaultEngineConfig(), nil, nil)

	scene := corridorScene()
	scene.TimeStep = 0
	if _, err := e.Run(context.Background(), scene); !errors.Is(err, ErrInvalidTimeStep) {
		t.Errorf("zero time step: err = %v, want ErrInvalidTimeStep", err)
	}

	scene = corridorScene()
	scene.Duration = -1
	if _, err := e.Run(context.Background(), scene); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("negative duration: err = %v, want ErrInvalidDuration", err)
	}
}

func TestRun_FrameCountAndTimes(t *testing.T) {
	e := NewEngine(DefaultEngineConfig(), nil, nil)

	res, err := e.Run(context.Background(), corridorScene())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Frames) != 10 {
		t.Fatalf("len(frames) = %d, want 10", len(res.Frames))
	}
	for f, frame := range res.Frames {
		if frame.Time != float64(f) {
			t.Errorf("frames[%d].Time = %v, want %v", f, frame.Time, float64(f))
		}
		if len(frame.Agents) != 1 {
			t.Errorf("frames[%d] has %d agents, want 1", f, len(frame.Agents))
		}
	}
	if res.AgentCount != 1 || res.ModelName != model.ProfileSpeed {
		t.Errorf("result metadata = %d agents, model %q", res.AgentCount, res.ModelName)
	}
}

func TestRun_AgentStartsAtSpawnAndReachesTarget(t *testing.T) {
	e := NewEngine(DefaultEngineConfig(), nil, nil)

	res, err := e.Run(context.Background(), corridorScene())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	first := res.Frames[0].Agents[0]
	if first.Position != pt(0, 0) {
		t.Errorf("first frame position = %v, want the start point", first.Position)
	}
	if first.Velocity != (model.Point{}) {
		t.Errorf("first frame velocity = %v, want zero", first.Velocity)
	}

	// The speed profile saturates before the run ends, so the final frame
	// sits exactly on the exit center.
	last := res.Frames[len(res.Frames)-1].Agents[0]
	if last.Position != pt(100, 0) {
		t.Errorf("last frame position = %v, want the exit center", last.Position)
	}
	if last.Velocity != (model.Point{}) {
		t.Errorf("velocity at path end = %v, want zero", last.Velocity)
	}
}

func TestRun_ZeroSpeedFactorFreezesAgents(t *testing.T) {
	e := NewEngine(DefaultEngineConfig(), nil, nil)

	scene := corridorScene()
	scene.SpeedFactor = 0
	res, err := e.Run(context.Background(), scene)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for f, frame := range res.Frames {
		a := frame.Agents[0]
		if a.Position != pt(0, 0) {
			t.Errorf("frames[%d] position = %v, want frozen at start", f, a.Position)
		}
		if a.Velocity != (model.Point{}) {
			t.Errorf("frames[%d] velocity = %v, want zero", f, a.Velocity)
		}
	}
}

// crowdScene exercises sources, obstacles, and random sampling so the
// determinism checks cover the rand-dependent paths.
func crowdScene() *model.Scene {
	return &model.Scene{
		Elements: []model.Element{
			squareElement("obs", model.KindObstacle, pt(40, 40), pt(60, 60)),
			{
				ID:         "src",
				Kind:       model.KindSourceRect,
				Points:     []model.Point{pt(0, 0), pt(30, 30)},
				AgentCount: 8,
			},
			{ID: "exit", Kind: model.KindExitPoint, Points: []model.Point{pt(90, 50), pt(110, 50)}},
		},
		Duration:    5,
		TimeStep:    0.05,
		SpeedFactor: 1.4,
		Profile:     model.ProfileSocial,
	}
}

func TestRun_SameSeedSameFrames(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Seed = 42

	a, err := NewEngine(cfg, nil, nil).Run(context.Background(), crowdScene())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := NewEngine(cfg, nil, nil).Run(context.Background(), crowdScene())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(a.Frames, b.Frames) {
		t.Errorf("same seed produced different frames")
	}
}

func TestRun_WorkerCountDoesNotChangeResults(t *testing.T) {
	serial := DefaultEngineConfig()
	serial.Seed = 42
	serial.Workers = 1

	parallel := serial
	parallel.Workers = 4

	a, err := NewEngine(serial, nil, nil).Run(context.Background(), crowdScene())
	if err != nil {
		t.Fatalf("serial run: %v", err)
	}
	b, err := NewEngine(parallel, nil, nil).Run(context.Background(), crowdScene())
	if err != nil {
		t.Fatalf("parallel run: %v", err)
	}
	if !reflect.DeepEqual(a.Frames, b.Frames) {
		t.Errorf("worker count changed the frame sequence")
	}
}

func TestRun_FrameListenersSeeEveryFrame(t *testing.T) {
	e := NewEngine(DefaultEngineConfig(), nil, nil)

	var indices []int
	e.RegisterFrameListener(func(i int, frame *model.Frame) {
		indices = append(indices, i)
		if len(frame.Agents) == 0 {
			t.Errorf("listener got empty frame at index %d", i)
		}
	})

	res, err := e.Run(context.Background(), corridorScene())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(indices) != len(res.Frames) {
		t.Fatalf("listener fired %d times for %d frames", len(indices), len(res.Frames))
	}
	for i, got := range indices {
		if got != i {
			t.Errorf("listener indices out of order: %v", indices)
			break
		}
	}
}

func TestRun_CanceledContext(t *testing.T) {
	e := NewEngine(DefaultEngineConfig(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Run(ctx, corridorScene()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
