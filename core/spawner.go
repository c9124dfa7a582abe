package core

import (
	"fmt"
	"math/rand"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// SpawnerConfig carries the tunables of agent materialization.
type SpawnerConfig struct {
	// Threshold is the obstacle clearance required of sampled spawn
	// positions.
	Threshold float64
	// MaxAttempts bounds rejection sampling per agent candidate.
	MaxAttempts int
	// DefaultSpawnCount is used when a source declares no agent count.
	DefaultSpawnCount int
	// DefaultAgentCount is how many agents are synthesized when the
	// scene has no usable sources, so playback is never empty.
	DefaultAgentCount int
	// RadiusMin and RadiusMax bound the per-agent radius draw.
	RadiusMin, RadiusMax float64
	// FallbackTarget is assigned when the scene has no exits.
	FallbackTarget model.Point
	// OpenWorldSize is the side length of the square agents are placed
	// in when the scene has no sources at all.
	OpenWorldSize float64
}

// DefaultSpawnerConfig is the lenient mode: small clearance, few retries.
func DefaultSpawnerConfig() SpawnerConfig {
	return SpawnerConfig{
		Threshold:         ThresholdLenient,
		MaxAttempts:       10,
		DefaultSpawnCount: 10,
		DefaultAgentCount: 10,
		RadiusMin:         0.25,
		RadiusMax:         0.35,
		FallbackTarget:    model.Point{X: 400, Y: 300},
		OpenWorldSize:     500,
	}
}

// StrictSpawnerConfig demands more obstacle clearance and retries harder.
func StrictSpawnerConfig() SpawnerConfig {
	cfg := DefaultSpawnerConfig()
	cfg.Threshold = ThresholdStrict
	cfg.MaxAttempts = 15
	return cfg
}

// AgentSpawner materializes agents from the scene's spawn sources and
// assigns each a target exit.
type AgentSpawner struct {
	index *SceneIndex
	cfg   SpawnerConfig
	rng   *rand.Rand

	nextID int
}

// NewAgentSpawner constructs a spawner. The rand source must be dedicated
// to this spawner.
func NewAgentSpawner(idx *SceneIndex, cfg SpawnerConfig, rng *rand.Rand) *AgentSpawner {
	if cfg.DefaultSpawnCount <= 0 {
		cfg.DefaultSpawnCount = 10
	}
	if cfg.DefaultAgentCount <= 0 {
		cfg.DefaultAgentCount = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &AgentSpawner{index: idx, cfg: cfg, rng: rng}
}

// Spawn returns the agents for one run: one per start point, a sampled
// batch per source rectangle, then layered degradation so the result is
// never empty.
func (s *AgentSpawner) Spawn() []*model.Agent {
	var agents []*model.Agent

	for _, p := range s.index.StartPoints {
		agents = append(agents, s.newAgent(p))
	}

	for _, src := range s.index.Sources {
		count := src.AgentCount
		if count <= 0 {
			count = s.cfg.DefaultSpawnCount
		}
		min, max := src.Rect()
		for i := 0; i < count; i++ {
			if p, ok := s.sampleRect(min, max, s.acceptStrict); ok {
				agents = append(agents, s.newAgent(p))
			}
			// Candidates that exhaust their attempts are dropped
			// silently; the degradation below catches the case
			// where everyone did.
		}
	}

	if len(agents) == 0 && len(s.index.Sources) > 0 {
		// Every sampled candidate was rejected (e.g. the source sits
		// against an obstacle). Place default agents with a
		// walkability-only check.
		min, max := s.index.Sources[0].Rect()
		for i := 0; i < s.cfg.DefaultAgentCount; i++ {
			if p, ok := s.sampleRect(min, max, s.index.IsWalkable); ok {
				agents = append(agents, s.newAgent(p))
			}
		}
	}

	if len(agents) == 0 && len(s.index.StartPoints) == 0 && len(s.index.Sources) == 0 {
		// No sources drawn at all: synthesize agents anywhere so the
		// playback has something to show.
		side := s.cfg.OpenWorldSize
		for i := 0; i < s.cfg.DefaultAgentCount; i++ {
			agents = append(agents, s.newAgent(model.Point{
				X: s.rng.Float64() * side,
				Y: s.rng.Float64() * side,
			}))
		}
	}

	return agents
}

func (s *AgentSpawner) acceptStrict(p model.Point) bool {
	return s.index.ValidPosition(p, s.cfg.Threshold)
}

// sampleRect rejection-samples a point in [min, max] accepted by ok,
// giving up after MaxAttempts.
func (s *AgentSpawner) sampleRect(min, max model.Point, ok func(model.Point) bool) (model.Point, bool) {
	for a := 0; a < s.cfg.MaxAttempts; a++ {
		p := model.Point{
			X: min.X + s.rng.Float64()*(max.X-min.X),
			Y: min.Y + s.rng.Float64()*(max.Y-min.Y),
		}
		if ok(p) {
			return p, true
		}
	}
	return model.Point{}, false
}

// newAgent draws a radius, picks a target exit, and assigns the next id.
func (s *AgentSpawner) newAgent(pos model.Point) *model.Agent {
	id := fmt.Sprintf("agent-%d", s.nextID)
	s.nextID++

	radius := s.cfg.RadiusMin + s.rng.Float64()*(s.cfg.RadiusMax-s.cfg.RadiusMin)

	target := s.cfg.FallbackTarget
	if len(s.index.Exits) > 0 {
		// Spread agents over exits by the last byte of the id. Looks
		// deterministic, is effectively arbitrary.
		target = s.index.Exits[int(id[len(id)-1])%len(s.index.Exits)]
	}

	return &model.Agent{
		ID:       id,
		Position: pos,
		Radius:   radius,
		Target:   target,
	}
}
