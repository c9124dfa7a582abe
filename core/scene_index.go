package core

import "github.com/Hossam-Shehadeh/web-based-jupedsim/model"

// Obstacle-distance thresholds used across the engine. The frontend the
// scene format comes from used both values in different code paths, so
// both stay supported; callers pick per context.
const (
	// ThresholdLenient is the obstacle clearance required for spawn
	// acceptance in lenient mode.
	ThresholdLenient = 10.0
	// ThresholdStrict is the clearance for strict-mode spawning and for
	// detour-point validation.
	ThresholdStrict = 40.0
)

// SceneIndex classifies a scene's elements into typed groups and answers
// point queries against them. It is built once per run and is read-only
// afterwards, so it may be shared across parallel workers without locking.
type SceneIndex struct {
	// Walkables holds the polygons of all walkable regions with at
	// least three vertices; smaller ones are ignored.
	Walkables [][]model.Point
	// Obstacles holds obstacle polygons with at least three vertices.
	Obstacles [][]model.Point
	// Sources are the SOURCE_RECTANGLE elements, in input order.
	Sources []model.Element
	// StartPoints are the positions of START_POINT elements.
	StartPoints []model.Point
	// Exits are the center points of EXIT_POINT elements.
	Exits []model.Point
	// Waypoints are the WAYPOINT elements, in input order.
	Waypoints []model.Element
}

// NewSceneIndex classifies the scene's elements.
func NewSceneIndex(scene *model.Scene) *SceneIndex {
	idx := &SceneIndex{}
	for _, e := range scene.Elements {
		switch {
		case e.Kind.IsWalkable():
			if len(e.Points) >= 3 {
				idx.Walkables = append(idx.Walkables, e.Points)
			}
		case e.Kind == model.KindObstacle:
			if len(e.Points) >= 3 {
				idx.Obstacles = append(idx.Obstacles, e.Points)
			}
		case e.Kind == model.KindSourceRect:
			idx.Sources = append(idx.Sources, e)
		case e.Kind == model.KindStartPoint:
			if len(e.Points) > 0 {
				idx.StartPoints = append(idx.StartPoints, e.Points[0])
			}
		case e.Kind == model.KindExitPoint:
			idx.Exits = append(idx.Exits, e.Center())
		case e.Kind == model.KindWaypoint:
			if len(e.Points) > 0 {
				idx.Waypoints = append(idx.Waypoints, e)
			}
		}
		// Unknown kinds are skipped; the drawing tool may emit
		// element types the fallback engine has no use for.
	}
	return idx
}

// IsWalkable reports whether p lies inside at least one walkable region.
// A scene with no walkable regions is an open world: everything walkable.
func (idx *SceneIndex) IsWalkable(p model.Point) bool {
	if len(idx.Walkables) == 0 {
		return true
	}
	for _, poly := range idx.Walkables {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// IsNearObstacle reports whether p is closer than threshold to any edge of
// any obstacle polygon.
func (idx *SceneIndex) IsNearObstacle(p model.Point, threshold float64) bool {
	for _, poly := range idx.Obstacles {
		for i := range poly {
			j := (i + 1) % len(poly)
			if DistancePointToSegment(p, poly[i], poly[j]) < threshold {
				return true
			}
		}
	}
	return false
}

// IntersectsObstacle reports whether segment a->b crosses any obstacle edge.
func (idx *SceneIndex) IntersectsObstacle(a, b model.Point) bool {
	for _, poly := range idx.Obstacles {
		for i := range poly {
			j := (i + 1) % len(poly)
			if SegmentsIntersect(a, b, poly[i], poly[j]) {
				return true
			}
		}
	}
	return false
}

// ValidPosition reports whether p is walkable and keeps the given clearance
// from every obstacle.
func (idx *SceneIndex) ValidPosition(p model.Point, threshold float64) bool {
	return idx.IsWalkable(p) && !idx.IsNearObstacle(p, threshold)
}
