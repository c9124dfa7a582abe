package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/core"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/store"
)

// maxRequestBytes bounds a scene upload. Drawn scenes are small; anything
// bigger is not a scene.
const maxRequestBytes = 4 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type simulationResponse struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	ModelName  string        `json:"modelName,omitempty"`
	Duration   float64       `json:"duration,omitempty"`
	TimeStep   float64       `json:"timeStep,omitempty"`
	AgentCount int           `json:"agentCount,omitempty"`
	FrameCount int           `json:"frameCount,omitempty"`
	Frames     []model.Frame `json:"frames,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func runResponse(run store.Run, includeFrames bool) simulationResponse {
	resp := simulationResponse{
		ID:     run.ID,
		Status: string(run.Status),
		Error:  run.Error,
	}
	if run.Result != nil {
		resp.ModelName = string(run.Result.ModelName)
		resp.Duration = run.Result.Duration
		resp.TimeStep = run.Result.TimeStep
		resp.AgentCount = run.Result.AgentCount
		resp.FrameCount = len(run.Result.Frames)
		if includeFrames {
			resp.Frames = run.Result.Frames
		}
	}
	return resp
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validator.Validate(body); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	scene, err := core.LoadScene(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.runs.Create()
	engine := core.NewEngine(s.cfg.EngineConfig(), s.log, s.metrics)

	runCtx, span := startSpan(ctx, "engine.run",
		attribute.String("run_id", id),
		attribute.String("model", string(scene.Profile)),
	)
	result, err := engine.Run(runCtx, scene)
	if err != nil {
		span.RecordError(err)
		span.End()
		if ferr := s.runs.Fail(id, err); ferr != nil {
			s.log.Warn(ctx, "record run failure", logging.String("run_id", id), logging.Err(ferr))
		}
		s.metrics.SetStoredRuns(s.runs.Len())
		s.log.Error(ctx, "simulation failed", logging.String("run_id", id), logging.Err(err))

		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrInvalidTimeStep) || errors.Is(err, core.ErrInvalidDuration) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err)
		return
	}
	span.SetAttributes(
		attribute.Int("agent_count", result.AgentCount),
		attribute.Int("frame_count", len(result.Frames)),
	)
	span.End()

	if cerr := s.runs.Complete(id, result); cerr != nil {
		s.log.Warn(ctx, "record run result", logging.String("run_id", id), logging.Err(cerr))
	}
	s.metrics.SetStoredRuns(s.runs.Len())
	s.log.Info(ctx, "simulation complete",
		logging.String("run_id", id),
		logging.Int("agents", result.AgentCount),
		logging.Int("frames", len(result.Frames)),
	)

	run, ok := s.runs.Get(id)
	if !ok {
		// Evicted between Create and Complete. Answer from the local
		// result so the caller still gets its frames.
		run = store.Run{ID: id, Status: store.StatusComplete, Result: result}
	}
	s.writeJSON(w, http.StatusCreated, runResponse(run, true))
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, ok := s.runs.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("simulation not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, runResponse(run, true))
}

type modelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models := []modelInfo{
		{Name: string(model.ProfileSpeed), Description: "Collision-free speed model"},
		{Name: string(model.ProfileSpeedV2), Description: "Collision-free speed model, smoothed start and stop"},
		{Name: string(model.ProfileCentrifugal), Description: "Generalized centrifugal force model"},
		{Name: string(model.ProfileSocial), Description: "Social force model"},
	}
	s.writeJSON(w, http.StatusOK, map[string][]modelInfo{"models": models})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(context.Background(), "response encode failed", logging.Err(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
