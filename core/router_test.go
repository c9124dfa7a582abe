package core

import (
	"testing"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

func waypoint(id string, p model.Point, conns ...string) model.Element {
	return model.Element{
		ID:          id,
		Kind:        model.KindWaypoint,
		Points:      []model.Point{p},
		Connections: conns,
	}
}

// blockingScene returns a scene with an obstacle square between (0,50) and
// (100,50) plus the given waypoints.
func blockingScene(wps ...model.Element) *model.Scene {
	elements := []model.Element{
		squareElement("obs", model.KindObstacle, pt(40, 40), pt(60, 60)),
	}
	elements = append(elements, wps...)
	return &model.Scene{Elements: elements}
}

func TestWaypointRouter_NoWaypoints(t *testing.T) {
	idx := NewSceneIndex(&model.Scene{})
	r := NewWaypointRouter(idx)

	if r.HasWaypoints() {
		t.Fatalf("expected empty graph")
	}
	if route := r.Route(pt(0, 0), pt(100, 0)); route != nil {
		t.Errorf("expected no route, got %v", route)
	}
}

func TestWaypointRouter_SingleSharedWaypoint(t *testing.T) {
	idx := NewSceneIndex(blockingScene(waypoint("w1", pt(50, 10))))
	r := NewWaypointRouter(idx)

	route := r.Route(pt(0, 50), pt(100, 50))
	want := []model.Point{pt(0, 50), pt(50, 10), pt(100, 50)}
	if len(route) != 3 {
		t.Fatalf("route = %v, want 3 points", route)
	}
	for i := range want {
		if route[i] != want[i] {
			t.Errorf("route[%d] = %v, want %v", i, route[i], want[i])
		}
	}
}

func TestWaypointRouter_MultiHopBFS(t *testing.T) {
	idx := NewSceneIndex(blockingScene(
		waypoint("a", pt(20, 10), "b"),
		waypoint("b", pt(50, 10), "c"),
		waypoint("c", pt(80, 10)),
	))
	r := NewWaypointRouter(idx)

	route := r.Route(pt(0, 50), pt(100, 50))
	want := []model.Point{pt(0, 50), pt(20, 10), pt(50, 10), pt(80, 10), pt(100, 50)}
	if len(route) != len(want) {
		t.Fatalf("route = %v, want %d points", route, len(want))
	}
	for i := range want {
		if route[i] != want[i] {
			t.Errorf("route[%d] = %v, want %v", i, route[i], want[i])
		}
	}
}

func TestWaypointRouter_OneHopShortcut(t *testing.T) {
	idx := NewSceneIndex(blockingScene(
		waypoint("a", pt(20, 10), "c"),
		waypoint("c", pt(80, 10)),
	))
	r := NewWaypointRouter(idx)

	route := r.Route(pt(0, 50), pt(100, 50))
	if len(route) != 4 {
		t.Fatalf("route = %v, want [start a c end]", route)
	}
}

func TestWaypointRouter_EdgesAreDirected(t *testing.T) {
	idx := NewSceneIndex(blockingScene(
		waypoint("a", pt(20, 10), "c"),
		waypoint("c", pt(80, 10)),
	))
	r := NewWaypointRouter(idx)

	// Reversed endpoints: entry is now c, which has no outgoing edges.
	if route := r.Route(pt(100, 50), pt(0, 50)); route != nil {
		t.Errorf("expected no route against edge direction, got %v", route)
	}
}

func TestWaypointRouter_ObstructedCandidatesSkipped(t *testing.T) {
	// near sits inside the obstacle's shadow: the segment from start
	// crosses the obstacle, so the farther clear waypoint must win.
	idx := NewSceneIndex(blockingScene(
		waypoint("near", pt(70, 50)),
		waypoint("far", pt(50, 10), "near"),
	))
	r := NewWaypointRouter(idx)

	route := r.Route(pt(30, 50), pt(100, 50))
	if route == nil {
		t.Fatalf("expected a route via the clear waypoint")
	}
	if route[1] != pt(50, 10) {
		t.Errorf("entry waypoint = %v, want the unobstructed one", route[1])
	}
}

func TestWaypointRouter_UnknownConnectionsDropped(t *testing.T) {
	idx := NewSceneIndex(blockingScene(
		waypoint("a", pt(20, 10), "ghost", "b"),
		waypoint("b", pt(80, 10)),
	))
	r := NewWaypointRouter(idx)

	if route := r.Route(pt(0, 50), pt(100, 50)); route == nil {
		t.Errorf("dangling connection ids must not break routing")
	}
}
