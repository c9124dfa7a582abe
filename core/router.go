package core

import "github.com/Hossam-Shehadeh/web-based-jupedsim/model"

// waypointNode is one node of the routing graph. Adjacency is index-based
// so BFS never goes through id lookups on the hot path.
type waypointNode struct {
	id  string
	pos model.Point
	adj []int
}

// WaypointRouter finds node-to-node routes through the directed waypoint
// graph declared by the scene. Routes are shortest by hop count, not by
// distance; the graph is small and hand-drawn, so fewest hops reads best.
type WaypointRouter struct {
	index *SceneIndex
	nodes []waypointNode
}

// NewWaypointRouter builds the routing graph from the scene's waypoint
// elements. Connections referencing unknown waypoint ids are dropped.
func NewWaypointRouter(idx *SceneIndex) *WaypointRouter {
	r := &WaypointRouter{index: idx}

	byID := make(map[string]int, len(idx.Waypoints))
	for i, wp := range idx.Waypoints {
		r.nodes = append(r.nodes, waypointNode{id: wp.ID, pos: wp.Points[0]})
		byID[wp.ID] = i
	}
	for i, wp := range idx.Waypoints {
		for _, connID := range wp.Connections {
			if j, ok := byID[connID]; ok {
				r.nodes[i].adj = append(r.nodes[i].adj, j)
			}
		}
	}
	return r
}

// HasWaypoints reports whether the graph has any nodes at all.
func (r *WaypointRouter) HasWaypoints() bool { return len(r.nodes) > 0 }

// Route returns a polyline start -> waypoints -> end through the graph, or
// nil when no obstacle-free route exists.
//
// Entry and exit nodes are the nearest waypoints whose connecting segment
// to start (resp. from end) is obstacle-free; obstructed candidates are
// skipped entirely, and nearest-distance ties keep the first-encountered
// node.
func (r *WaypointRouter) Route(start, end model.Point) []model.Point {
	if len(r.nodes) == 0 {
		return nil
	}

	entry := r.nearestClear(start, false)
	exit := r.nearestClear(end, true)
	if entry < 0 || exit < 0 {
		return nil
	}

	if entry == exit {
		return []model.Point{start, r.nodes[entry].pos, end}
	}

	// Direct connection needs no search.
	for _, j := range r.nodes[entry].adj {
		if j == exit {
			return []model.Point{start, r.nodes[entry].pos, r.nodes[exit].pos, end}
		}
	}

	hops := r.bfs(entry, exit)
	if hops == nil {
		return nil
	}

	route := make([]model.Point, 0, len(hops)+2)
	route = append(route, start)
	for _, n := range hops {
		route = append(route, r.nodes[n].pos)
	}
	route = append(route, end)
	return route
}

// nearestClear picks the closest node with a clear segment to/from p.
// toP flips the segment direction (node -> p instead of p -> node); the
// obstruction test is symmetric but the intent differs.
func (r *WaypointRouter) nearestClear(p model.Point, toP bool) int {
	best := -1
	bestDist := 0.0
	for i, n := range r.nodes {
		a, b := p, n.pos
		if toP {
			a, b = n.pos, p
		}
		if r.index.IntersectsObstacle(a, b) {
			continue
		}
		d := Distance(p, n.pos)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// bfs runs a breadth-first search from entry to exit over the directed
// adjacency lists, traversing an edge only when the straight segment
// between its endpoints is obstacle-free. Returns the node index sequence
// including both endpoints, or nil when exit is unreachable.
func (r *WaypointRouter) bfs(entry, exit int) []int {
	parent := make([]int, len(r.nodes))
	for i := range parent {
		parent[i] = -1
	}

	visited := make([]bool, len(r.nodes))
	visited[entry] = true
	queue := []int{entry}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		if u == exit {
			// Walk parents back to entry.
			var rev []int
			for n := exit; n != -1; n = parent[n] {
				rev = append(rev, n)
			}
			path := make([]int, len(rev))
			for i, n := range rev {
				path[len(rev)-1-i] = n
			}
			return path
		}

		for _, v := range r.nodes[u].adj {
			if visited[v] {
				continue
			}
			if r.index.IntersectsObstacle(r.nodes[u].pos, r.nodes[v].pos) {
				continue
			}
			visited[v] = true
			parent[v] = u
			queue = append(queue, v)
		}
	}
	return nil
}
