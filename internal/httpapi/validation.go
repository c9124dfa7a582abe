package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/config"
)

// ErrInvalidRequest wraps every request validation failure so handlers can
// map the whole class to a 400.
var ErrInvalidRequest = errors.New("invalid simulation request")

// requestSchema is the structural contract for a simulation request. The
// engine tolerates unknown element types; the schema only pins down the
// shapes it cannot work without.
const requestSchema = `{
  "type": "object",
  "required": ["elements"],
  "properties": {
    "elements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type", "points"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "points": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["x", "y"],
              "properties": {
                "x": {"type": "number"},
                "y": {"type": "number"}
              }
            }
          },
          "properties": {
            "type": "object",
            "properties": {
              "agentCount": {"type": "integer", "minimum": 0},
              "connections": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    },
    "selectedModel": {"type": "string"},
    "simulationTime": {"type": "number"},
    "timeStep": {"type": "number"},
    "simulationSpeed": {"type": "number"}
  }
}`

// Validator checks simulation requests structurally (JSON Schema) and
// numerically (run parameter bounds).
type Validator struct {
	schema gojsonschema.JSONLoader
	bounds config.ValidationConfig
}

// NewValidator builds a validator with the given parameter bounds.
func NewValidator(bounds config.ValidationConfig) *Validator {
	return &Validator{
		schema: gojsonschema.NewStringLoader(requestSchema),
		bounds: bounds,
	}
}

// requestParams picks out just the numeric run parameters. Pointers so an
// omitted field (which gets a default later) is not confused with zero.
type requestParams struct {
	SimulationTime  *float64 `json:"simulationTime"`
	TimeStep        *float64 `json:"timeStep"`
	SimulationSpeed *float64 `json:"simulationSpeed"`
}

// Validate checks a raw request body. All failures wrap ErrInvalidRequest.
func (v *Validator) Validate(body []byte) error {
	result, err := gojsonschema.Validate(v.schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, msgs)
	}

	var params requestParams
	if err := json.Unmarshal(body, &params); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return v.checkBounds(params)
}

// checkBounds validates only the parameters the request actually carries;
// omitted ones receive safe defaults at load time.
func (v *Validator) checkBounds(p requestParams) error {
	if p.SimulationTime != nil {
		if t := *p.SimulationTime; t <= 0 || t > v.bounds.MaxDuration {
			return fmt.Errorf("%w: simulationTime must be in (0, %v], got %v", ErrInvalidRequest, v.bounds.MaxDuration, t)
		}
	}
	if p.TimeStep != nil {
		if s := *p.TimeStep; s <= 0 || s > v.bounds.MaxTimeStep {
			return fmt.Errorf("%w: timeStep must be in (0, %v], got %v", ErrInvalidRequest, v.bounds.MaxTimeStep, s)
		}
	}
	if p.SimulationSpeed != nil {
		if s := *p.SimulationSpeed; s < 0 || s > v.bounds.MaxSpeedFactor {
			return fmt.Errorf("%w: simulationSpeed must be in [0, %v], got %v", ErrInvalidRequest, v.bounds.MaxSpeedFactor, s)
		}
	}
	return nil
}
