package model

// Agent is one simulated pedestrian. Agents are created by the spawner at
// the start of a run and never destroyed mid-run; Radius and Path are fixed
// once planned.
type Agent struct {
	ID       string
	Position Point
	Radius   float64

	// Target is the center point of the assigned exit.
	Target Point

	// Path is the precomputed polyline from spawn to Target.
	Path []Point
}
