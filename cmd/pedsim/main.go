package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/core"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// resultJSON is the CLI output shape, compatible with what the HTTP API
// returns for a completed run.
type resultJSON struct {
	ModelName  string        `json:"modelName"`
	Duration   float64       `json:"duration"`
	TimeStep   float64       `json:"timeStep"`
	AgentCount int           `json:"agentCount"`
	FrameCount int           `json:"frameCount"`
	Frames     []model.Frame `json:"frames"`
}

func main() {
	scenePath := flag.String("scene", "-", "scene JSON file, or - for stdin")
	modelName := flag.String("model", "", "kinematic model override")
	duration := flag.Float64("duration", 0, "simulation duration override, seconds")
	step := flag.Float64("step", 0, "time step override, seconds")
	speed := flag.Float64("speed", -1, "speed factor override")
	seed := flag.Int64("seed", 0, "random seed for reproducible runs")
	strict := flag.Bool("strict", false, "use strict spawn clearance")
	pretty := flag.Bool("pretty", false, "indent the output JSON")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	scene, err := loadScene(*scenePath)
	if err != nil {
		log.Error(ctx, "failed to load scene", logging.Err(err))
		os.Exit(1)
	}

	if *modelName != "" {
		scene.Profile = model.ParseProfile(*modelName)
	}
	if *duration > 0 {
		scene.Duration = *duration
	}
	if *step > 0 {
		scene.TimeStep = *step
	}
	if *speed >= 0 {
		scene.SpeedFactor = *speed
	}

	cfg := core.DefaultEngineConfig()
	cfg.Seed = *seed
	cfg.StrictSpawning = *strict
	if *strict {
		cfg.Spawner = core.StrictSpawnerConfig()
	}

	result, err := core.NewEngine(cfg, log, nil).Run(ctx, scene)
	if err != nil {
		log.Error(ctx, "simulation failed", logging.Err(err))
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	out := resultJSON{
		ModelName:  string(result.ModelName),
		Duration:   result.Duration,
		TimeStep:   result.TimeStep,
		AgentCount: result.AgentCount,
		FrameCount: len(result.Frames),
		Frames:     result.Frames,
	}
	if err := enc.Encode(out); err != nil {
		log.Error(ctx, "failed to write result", logging.Err(err))
		os.Exit(1)
	}
}

func loadScene(path string) (*model.Scene, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open scene: %w", err)
		}
		defer f.Close()
		r = f
	}
	return core.LoadScene(r)
}
