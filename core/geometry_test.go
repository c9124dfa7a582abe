package core

import (
	"math"
	"testing"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

func pt(x, y float64) model.Point { return model.Point{X: x, Y: y} }

func TestPointInPolygon_ConvexSquare(t *testing.T) {
	square := []model.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

	if !PointInPolygon(pt(5, 5), square) {
		t.Errorf("expected interior point to be inside")
	}
	if PointInPolygon(pt(100, 100), square) {
		t.Errorf("expected far-away point to be outside")
	}
}

func TestPointInPolygon_DegenerateVertexCount(t *testing.T) {
	if PointInPolygon(pt(0, 0), nil) {
		t.Errorf("empty polygon should contain nothing")
	}
	if PointInPolygon(pt(1, 0), []model.Point{pt(0, 0), pt(2, 0)}) {
		t.Errorf("two-vertex polygon should contain nothing")
	}
}

func TestSegmentsIntersect_Cross(t *testing.T) {
	if !SegmentsIntersect(pt(0, 0), pt(10, 10), pt(0, 10), pt(10, 0)) {
		t.Errorf("expected X-shaped segments to intersect")
	}
}

func TestSegmentsIntersect_Parallel(t *testing.T) {
	if SegmentsIntersect(pt(0, 0), pt(10, 0), pt(0, 5), pt(10, 5)) {
		t.Errorf("parallel segments must not intersect")
	}
}

func TestSegmentsIntersect_DegenerateSegment(t *testing.T) {
	// A zero-length segment is parallel to everything.
	if SegmentsIntersect(pt(5, 5), pt(5, 5), pt(0, 0), pt(10, 10)) {
		t.Errorf("zero-length segment must report no intersection")
	}
}

func TestSegmentsIntersect_DisjointButCollinearParams(t *testing.T) {
	// Crossing lines whose intersection lies outside both segments.
	if SegmentsIntersect(pt(0, 0), pt(1, 1), pt(10, 0), pt(0, 10)) {
		t.Errorf("segments whose lines cross beyond their extents must not intersect")
	}
}

func TestDistancePointToSegment(t *testing.T) {
	if d := DistancePointToSegment(pt(5, 5), pt(0, 0), pt(10, 0)); d != 5 {
		t.Errorf("perpendicular distance = %v, want 5", d)
	}

	// Projection clamps to segment end.
	want := math.Sqrt(100 + 25)
	if d := DistancePointToSegment(pt(20, 5), pt(0, 0), pt(10, 0)); math.Abs(d-want) > 1e-9 {
		t.Errorf("clamped distance = %v, want %v", d, want)
	}

	// Zero-length segment degrades to point distance.
	if d := DistancePointToSegment(pt(3, 4), pt(0, 0), pt(0, 0)); d != 5 {
		t.Errorf("degenerate segment distance = %v, want 5", d)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(pt(0, 0), pt(3, 4)); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
