package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// Defaults applied when the scene request omits run parameters. They match
// the drawing frontend's own defaults.
const (
	DefaultDuration    = 10.0
	DefaultTimeStep    = 0.05
	DefaultSpeedFactor = 1.4
)

// internal JSON shapes - kept unexported so the wire format can evolve
// without touching the model package.
type sceneJSON struct {
	Elements        []elementJSON `json:"elements"`
	SelectedModel   string        `json:"selectedModel"`
	SimulationTime  float64       `json:"simulationTime"`
	TimeStep        float64       `json:"timeStep"`
	// Pointer so an explicit 0 (frozen agents) is distinguishable from
	// an omitted field.
	SimulationSpeed *float64 `json:"simulationSpeed"`
}

type elementJSON struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Points     []pointJSON       `json:"points"`
	Properties *elementPropsJSON `json:"properties"`
}

type elementPropsJSON struct {
	AgentCount  int      `json:"agentCount"`
	Connections []string `json:"connections"`
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadScene reads a simulation request JSON from r and produces a Scene.
// It fails only on JSON errors and empty element ids; element kinds the
// engine has no use for are carried along and ignored by the scene index.
func LoadScene(r io.Reader) (*model.Scene, error) {
	var payload sceneJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScene: decode failed: %w", err)
	}

	scene := &model.Scene{
		Duration:    payload.SimulationTime,
		TimeStep:    payload.TimeStep,
		SpeedFactor: DefaultSpeedFactor,
		Profile:     model.ParseProfile(payload.SelectedModel),
	}
	if scene.Duration == 0 {
		scene.Duration = DefaultDuration
	}
	if scene.TimeStep == 0 {
		scene.TimeStep = DefaultTimeStep
	}
	if payload.SimulationSpeed != nil {
		scene.SpeedFactor = *payload.SimulationSpeed
	}

	for _, je := range payload.Elements {
		if je.ID == "" {
			return nil, fmt.Errorf("LoadScene: element with empty id")
		}
		e := model.Element{
			ID:   je.ID,
			Kind: model.ElementKind(je.Type),
		}
		for _, p := range je.Points {
			e.Points = append(e.Points, model.Point{X: p.X, Y: p.Y})
		}
		if je.Properties != nil {
			e.AgentCount = je.Properties.AgentCount
			e.Connections = je.Properties.Connections
		}
		scene.Elements = append(scene.Elements, e)
	}

	return scene, nil
}
