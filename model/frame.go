package model

// AgentState is one agent's snapshot inside a frame.
type AgentState struct {
	ID       string  `json:"id"`
	Position Point   `json:"position"`
	Radius   float64 `json:"radius"`
	Velocity Point   `json:"velocity"`
}

// Frame is one time-stamped snapshot of all agents. Frames are emitted in
// strictly increasing time order, one per discrete step.
type Frame struct {
	Time   float64      `json:"time"`
	Agents []AgentState `json:"agents"`
}

// SimulationResult bundles the frames of one run with its metadata.
type SimulationResult struct {
	Frames []Frame

	ModelName  KinematicProfile
	Duration   float64
	TimeStep   float64
	AgentCount int
}
