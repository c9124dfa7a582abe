package model

// Point is a position in 2-D scene space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// ElementKind identifies what a drawn element represents.
type ElementKind string

const (
	KindStreetLine ElementKind = "STREET_LINE"
	KindFreeLine   ElementKind = "FREE_LINE"
	KindRoom       ElementKind = "ROOM"
	KindObstacle   ElementKind = "OBSTACLE"
	KindStartPoint ElementKind = "START_POINT"
	KindSourceRect ElementKind = "SOURCE_RECTANGLE"
	KindExitPoint  ElementKind = "EXIT_POINT"
	KindWaypoint   ElementKind = "WAYPOINT"
)

// IsWalkable reports whether elements of this kind define walkable area.
func (k ElementKind) IsWalkable() bool {
	return k == KindStreetLine || k == KindFreeLine || k == KindRoom
}

// Element is one drawn scenario primitive. Elements are produced by the
// drawing frontend and are read-only inputs to the engine.
//
// Point-count conventions: regions and obstacles carry >= 3 points (a
// polygon), source rectangles and exit lines carry 2, start points and
// waypoints carry 1.
type Element struct {
	ID     string      `json:"id"`
	Kind   ElementKind `json:"type"`
	Points []Point     `json:"points"`

	// AgentCount is only meaningful for SOURCE_RECTANGLE elements.
	// Zero means "not set"; the spawner applies its default.
	AgentCount int `json:"agentCount,omitempty"`

	// Connections is the directed adjacency list of a WAYPOINT element,
	// referencing other waypoint element IDs.
	Connections []string `json:"connections,omitempty"`
}

// Rect returns the axis-aligned bounding rectangle of the element's points
// as (min, max). A point element yields a degenerate rectangle.
func (e *Element) Rect() (Point, Point) {
	if len(e.Points) == 0 {
		return Point{}, Point{}
	}
	min, max := e.Points[0], e.Points[0]
	for _, p := range e.Points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Center returns a representative point for the element: the midpoint of
// the first two points for 2-point elements (exit lines, source rects),
// the single point for point elements, and the vertex centroid otherwise.
func (e *Element) Center() Point {
	switch len(e.Points) {
	case 0:
		return Point{}
	case 1:
		return e.Points[0]
	case 2:
		return Point{
			X: (e.Points[0].X + e.Points[1].X) / 2,
			Y: (e.Points[0].Y + e.Points[1].Y) / 2,
		}
	default:
		var c Point
		for _, p := range e.Points {
			c.X += p.X
			c.Y += p.Y
		}
		n := float64(len(e.Points))
		return Point{X: c.X / n, Y: c.Y / n}
	}
}
