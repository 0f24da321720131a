// Package routing holds the route graph and the path search
// algorithms that operate on it. The graph is a point-in-time snapshot
// of routes with available capacity; it is never authoritative for
// booking decisions, which must re-validate against live inventory.
package routing

// Route is a directed origin-destination pair.
type Route struct {
	Origin      string
	Destination string
}

// Graph is a directed adjacency structure over airport codes. It is
// built once from a snapshot and read-only afterwards; a refresh
// builds a new Graph and swaps it in.
type Graph struct {
	adj      map[string][]string
	edges    map[Route]struct{}
	vertices map[string]struct{}
}

// NewGraph builds a graph from route pairs. Duplicate edges collapse
// to one; neighbor order is the order in which edges were first seen.
// Airports that only ever appear as a destination are present but
// isolated.
func NewGraph(routes []Route) *Graph {
	g := &Graph{
		adj:      make(map[string][]string),
		edges:    make(map[Route]struct{}),
		vertices: make(map[string]struct{}),
	}
	for _, r := range routes {
		g.AddEdge(r.Origin, r.Destination)
	}
	return g
}

// AddEdge inserts a directed edge. Re-adding an existing edge is a
// no-op.
func (g *Graph) AddEdge(origin, destination string) {
	g.vertices[origin] = struct{}{}
	g.vertices[destination] = struct{}{}

	key := Route{Origin: origin, Destination: destination}
	if _, ok := g.edges[key]; ok {
		return
	}
	g.edges[key] = struct{}{}
	g.adj[origin] = append(g.adj[origin], destination)
}

// Neighbors returns the destinations reachable in one hop from the
// given airport, in first-insertion order. Unknown airports have no
// neighbors.
func (g *Graph) Neighbors(airport string) []string {
	return g.adj[airport]
}

// Contains reports whether the airport appears in the snapshot, as an
// origin or as a destination.
func (g *Graph) Contains(airport string) bool {
	_, ok := g.vertices[airport]
	return ok
}

// HasEdge reports whether a direct edge exists.
func (g *Graph) HasEdge(origin, destination string) bool {
	_, ok := g.edges[Route{Origin: origin, Destination: destination}]
	return ok
}
