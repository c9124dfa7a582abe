package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/config"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/internal/observability"
	"github.com/Hossam-Shehadeh/web-based-jupedsim/store"
)

const corridorRequest = `{
	"elements": [
		{"id": "s1", "type": "START_POINT", "points": [{"x": 0, "y": 0}]},
		{"id": "e1", "type": "EXIT_POINT", "points": [{"x": 90, "y": 0}, {"x": 110, "y": 0}]}
	],
	"selectedModel": "CollisionFreeSpeedModel",
	"simulationTime": 2,
	"timeStep": 0.1,
	"simulationSpeed": 1
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	metrics, err := observability.NewSimulationCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	return NewServer(config.Default(), nil, metrics, store.NewRunStore(10))
}

func postSimulation(t *testing.T, s *Server, body string) simulationResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/simulation", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp simulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateSimulation(t *testing.T) {
	s := newTestServer(t)

	resp := postSimulation(t, s, corridorRequest)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(store.StatusComplete), resp.Status)
	assert.Equal(t, "CollisionFreeSpeedModel", resp.ModelName)
	assert.Equal(t, 1, resp.AgentCount)
	assert.Len(t, resp.Frames, 20)
	assert.Equal(t, 20, resp.FrameCount)
}

func TestCreateSimulation_BadRequests(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"malformed json":       `{"elements": [`,
		"missing elements":     `{"selectedModel": "SocialForceModel"}`,
		"element without id":   `{"elements": [{"type": "ROOM", "points": []}]}`,
		"time step too large":  `{"elements": [], "timeStep": 5}`,
		"negative duration":    `{"elements": [], "simulationTime": -1}`,
		"speed over the limit": `{"elements": [], "simulationSpeed": 11}`,
	}
	for name, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/simulation", strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestGetSimulation(t *testing.T) {
	s := newTestServer(t)
	created := postSimulation(t, s, corridorRequest)

	req := httptest.NewRequest(http.MethodGet, "/api/simulation/"+created.ID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp simulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Len(t, resp.Frames, 20)
}

func TestGetSimulation_NotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/simulation/no-such-run", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListModels(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]modelInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["models"], 4)
	assert.Equal(t, "CollisionFreeSpeedModel", resp["models"][0].Name)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	postSimulation(t, s, corridorRequest)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "simulation_runs_total")
}

func TestStreamSimulation_FastMode(t *testing.T) {
	s := newTestServer(t)
	created := postSimulation(t, s, corridorRequest)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/simulation/" + created.ID + "?mode=fast"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	frames := 0
	for {
		var msg streamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == "done" {
			assert.Equal(t, 20, msg.FrameCount)
			break
		}
		require.Equal(t, "frame", msg.Type)
		require.NotNil(t, msg.Frame)
		assert.Equal(t, frames, msg.Index)
		frames++
	}
	assert.Equal(t, 20, frames)
}

func TestStreamSimulation_UnknownRun(t *testing.T) {
	s := newTestServer(t)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/simulation/ghost"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
