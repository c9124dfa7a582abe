package core

import (
	"math"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/model"
)

// parallelEps is the determinant threshold below which two segments are
// treated as parallel (and therefore non-intersecting).
const parallelEps = 1e-10

// Distance returns the Euclidean distance between two points.
func Distance(p, q model.Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PointInPolygon reports whether p lies inside the polygon using the
// even-odd ray-casting test. Polygons with fewer than three vertices
// contain nothing.
func PointInPolygon(p model.Point, polygon []model.Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// DistancePointToSegment returns the distance from p to the closest point
// on segment [a, b]. A zero-length segment degrades to point distance.
func DistancePointToSegment(p, a, b model.Point) float64 {
	ab := b.Sub(a)
	ap := p.Sub(a)

	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return Distance(p, a)
	}

	t := (ap.X*ab.X + ap.Y*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := a.Add(ab.Scale(t))
	return Distance(p, closest)
}

// SegmentsIntersect reports whether segments [a,b] and [c,d] intersect.
// Parallel (and degenerate) segments never intersect; endpoint contact
// counts as an intersection.
func SegmentsIntersect(a, b, c, d model.Point) bool {
	d1 := b.Sub(a)
	d2 := d.Sub(c)

	det := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(det) < parallelEps {
		return false
	}

	t := ((c.X-a.X)*d2.Y - (c.Y-a.Y)*d2.X) / det
	u := ((c.X-a.X)*d1.Y - (c.Y-a.Y)*d1.X) / det

	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}
