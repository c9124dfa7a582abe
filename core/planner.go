package core

import (
	"math"
	"math/rand"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// PlanStrategy names which fallback level produced a path.
type PlanStrategy string

const (
	StrategyDirect   PlanStrategy = "direct"
	StrategyWaypoint PlanStrategy = "waypoint"
	StrategyDetour   PlanStrategy = "detour"
	// StrategyDegraded is a direct path emitted despite a known
	// obstruction, after every detour candidate failed. Visually
	// imperfect, never a hard failure.
	StrategyDegraded PlanStrategy = "degraded"
)

// PlannerConfig carries the tunables of the path planner.
type PlannerConfig struct {
	// DetourThreshold is the obstacle clearance required of detour
	// candidate points.
	DetourThreshold float64
	// JitterAmplitude is the maximum lateral offset applied to interior
	// points of a synthesized straight path. The applied amplitude
	// shrinks linearly to zero toward the path's end.
	JitterAmplitude float64
	// RandomDetourAttempts bounds the random candidate search after the
	// six perpendicular candidates all fail.
	RandomDetourAttempts int
}

// DefaultPlannerConfig returns the planner tunables used by the engine
// unless overridden.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		DetourThreshold:      ThresholdStrict,
		JitterAmplitude:      5.0,
		RandomDetourAttempts: 20,
	}
}

// detourFractions are the perpendicular detour magnitudes tried, as
// fractions of the direct start-end distance.
var detourFractions = [3]float64{0.5, 0.7, 0.9}

// PathPlanner produces a concrete polyline from a spawn point to a target.
// It always succeeds: direct route, then waypoint graph, then a lateral
// detour, then a degraded direct path.
//
// The rand source is owned by the planner; give each parallel worker its
// own planner (index and router are safe to share).
type PathPlanner struct {
	index  *SceneIndex
	router *WaypointRouter
	cfg    PlannerConfig
	rng    *rand.Rand
}

// NewPathPlanner constructs a planner over a built scene index and router.
func NewPathPlanner(idx *SceneIndex, router *WaypointRouter, cfg PlannerConfig, rng *rand.Rand) *PathPlanner {
	if cfg.RandomDetourAttempts <= 0 {
		cfg.RandomDetourAttempts = 20
	}
	return &PathPlanner{index: idx, router: router, cfg: cfg, rng: rng}
}

// Plan returns a path of roughly pointBudget points from start to end,
// along with the strategy that produced it. The first point is exactly
// start and the last exactly end; budgets below 2 are clamped to 2.
func (pl *PathPlanner) Plan(start, end model.Point, pointBudget int) ([]model.Point, PlanStrategy) {
	if start == end {
		return []model.Point{start}, StrategyDirect
	}
	if pointBudget < 2 {
		pointBudget = 2
	}

	if !pl.index.IntersectsObstacle(start, end) {
		return pl.jitteredSegment(start, end, pointBudget), StrategyDirect
	}

	if pl.router != nil && pl.router.HasWaypoints() {
		if route := pl.router.Route(start, end); route != nil && pl.routeClear(route) {
			return subdivideRoute(route, pointBudget), StrategyWaypoint
		}
	}

	if detour, ok := pl.findDetour(start, end); ok {
		half := pointBudget / 2
		if half < 2 {
			half = 2
		}
		path := pl.jitteredSegment(start, detour, half)
		second := pl.jitteredSegment(detour, end, half)
		// Skip the duplicated detour point.
		return append(path, second[1:]...), StrategyDetour
	}

	return pl.jitteredSegment(start, end, pointBudget), StrategyDegraded
}

// routeClear verifies a waypoint route is obstacle-free end to end.
func (pl *PathPlanner) routeClear(route []model.Point) bool {
	for i := 0; i+1 < len(route); i++ {
		if pl.index.IntersectsObstacle(route[i], route[i+1]) {
			return false
		}
	}
	return true
}

// findDetour searches for a single intermediate point that routes around
// an obstruction: six perpendicular candidates first (three magnitudes,
// both signs, best by total path length), then bounded random sampling in
// the region between start and end.
func (pl *PathPlanner) findDetour(start, end model.Point) (model.Point, bool) {
	dir := end.Sub(start)
	dist := Distance(start, end)
	if dist == 0 {
		return model.Point{}, false
	}
	mid := start.Add(dir.Scale(0.5))
	perp := model.Point{X: -dir.Y / dist, Y: dir.X / dist}

	var best model.Point
	bestLen := math.Inf(1)
	found := false
	for _, frac := range detourFractions {
		for _, sign := range [2]float64{-1, 1} {
			c := mid.Add(perp.Scale(sign * frac * dist))
			if !pl.index.ValidPosition(c, pl.cfg.DetourThreshold) {
				continue
			}
			total := Distance(start, c) + Distance(c, end)
			if total < bestLen {
				best = c
				bestLen = total
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	for i := 0; i < pl.cfg.RandomDetourAttempts; i++ {
		c := model.Point{
			X: mid.X + (pl.rng.Float64()-0.5)*dist,
			Y: mid.Y + (pl.rng.Float64()-0.5)*dist,
		}
		if pl.index.ValidPosition(c, pl.cfg.DetourThreshold) {
			return c, true
		}
	}
	return model.Point{}, false
}

// jitteredSegment subdivides [start, end] into n points, displacing the
// interior ones laterally so the path wanders early and settles exactly on
// end. Endpoints are never jittered.
func (pl *PathPlanner) jitteredSegment(start, end model.Point, n int) []model.Point {
	if n < 2 {
		n = 2
	}
	dir := end.Sub(start)
	dist := Distance(start, end)
	var perp model.Point
	if dist > 0 {
		perp = model.Point{X: -dir.Y / dist, Y: dir.X / dist}
	}

	path := make([]model.Point, 0, n)
	path = append(path, start)
	for i := 1; i < n-1; i++ {
		t := float64(i) / float64(n-1)
		p := start.Add(dir.Scale(t))
		amp := pl.cfg.JitterAmplitude * (1 - t)
		off := (pl.rng.Float64()*2 - 1) * amp
		path = append(path, p.Add(perp.Scale(off)))
	}
	return append(path, end)
}

// subdivideRoute expands a sparse waypoint route into roughly budget
// evenly spaced points, splitting each leg proportionally to its length.
// Route vertices themselves are kept exact.
func subdivideRoute(route []model.Point, budget int) []model.Point {
	if len(route) >= budget {
		return route
	}

	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		total += Distance(route[i], route[i+1])
	}
	if total == 0 {
		return route
	}

	out := []model.Point{route[0]}
	for i := 0; i+1 < len(route); i++ {
		a, b := route[i], route[i+1]
		legLen := Distance(a, b)
		steps := int(math.Round(float64(budget) * legLen / total))
		if steps < 1 {
			steps = 1
		}
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			out = append(out, a.Add(b.Sub(a).Scale(t)))
		}
	}
	return out
}
