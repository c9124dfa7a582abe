package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/logging"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/store"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/timectrl"
)

var upgrader = websocket.Upgrader{
	// The drawing frontend is served from a different origin in
	// development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamMessage is one WebSocket playback message. Type is "frame" for
// frame payloads and "done" for the closing summary.
type streamMessage struct {
	Type       string       `json:"type"`
	Index      int          `json:"index,omitempty"`
	Frame      *model.Frame `json:"frame,omitempty"`
	FrameCount int          `json:"frameCount,omitempty"`
}

// handleStream replays a stored run's frames over a WebSocket. The default
// pacing follows the scene's time step; ?mode=fast sends frames as quickly
// as the client drains them.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	run, ok := s.runs.Get(id)
	if !ok {
		http.Error(w, "simulation not found", http.StatusNotFound)
		return
	}

	if run.Status == store.StatusRunning {
		run, ok = s.awaitRun(r, id)
		if !ok {
			return
		}
	}
	if run.Status == store.StatusFailed || run.Result == nil {
		http.Error(w, "simulation failed: "+run.Error, http.StatusUnprocessableEntity)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(ctx, "websocket upgrade failed", logging.Err(err))
		return
	}
	defer conn.Close()

	mode := timectrl.ParseMode(r.URL.Query().Get("mode"))
	step := time.Duration(run.Result.TimeStep * float64(time.Second))
	pacer := timectrl.NewFramePacer(mode, step)
	defer pacer.Stop()

	for i := range run.Result.Frames {
		if err := pacer.Wait(ctx); err != nil {
			return
		}
		msg := streamMessage{Type: "frame", Index: i, Frame: &run.Result.Frames[i]}
		if err := conn.WriteJSON(msg); err != nil {
			s.log.Debug(ctx, "stream client gone", logging.String("run_id", id), logging.Err(err))
			return
		}
	}

	if err := conn.WriteJSON(streamMessage{Type: "done", FrameCount: len(run.Result.Frames)}); err != nil {
		s.log.Debug(ctx, "stream client gone", logging.String("run_id", id), logging.Err(err))
	}
}

// awaitRun blocks until the run leaves the running state or the client
// disconnects. Reports false when the wait was abandoned.
func (s *Server) awaitRun(r *http.Request, id string) (store.Run, bool) {
	done := make(chan store.Run, 1)
	unsubscribe := s.runs.Subscribe(func(e store.Event) {
		if e.Run.ID == id {
			select {
			case done <- e.Run:
			default:
			}
		}
	})
	defer unsubscribe()

	// The run may have finished between Get and Subscribe.
	if run, ok := s.runs.Get(id); ok && run.Status != store.StatusRunning {
		return run, true
	}

	select {
	case run := <-done:
		return run, true
	case <-r.Context().Done():
		return store.Run{}, false
	}
}
