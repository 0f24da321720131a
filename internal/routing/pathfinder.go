package routing

import (
	"context"
	"math"
)

const (
	// DefaultMaxStops bounds the cheapest-route enumeration to paths
	// with at most this many edges. Raising it without also bounding
	// fan-out makes the search explode on dense graphs.
	DefaultMaxStops = 3

	// DefaultMaxExpansions caps the number of worklist nodes the
	// cheapest-route search will visit before giving up with the best
	// result found so far.
	DefaultMaxExpansions = 10000
)

// ResolveFunc prices a candidate airport sequence against live leg
// inventory. It returns the true total price and whether every segment
// resolved to an available leg.
type ResolveFunc func(ctx context.Context, route []string) (total float64, ok bool, err error)

// ShortestPath returns the route with the fewest hops from origin to
// destination, breadth-first. Among equal-length paths the result is
// fixed by the graph's neighbor insertion order. Returns nil when
// either endpoint is absent or the destination is unreachable.
func (g *Graph) ShortestPath(origin, destination string) []string {
	if !g.Contains(origin) || !g.Contains(destination) {
		return nil
	}

	queue := [][]string{{origin}}
	visited := map[string]struct{}{origin: {}}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		last := path[len(path)-1]
		if last == destination {
			return path
		}
		for _, nb := range g.Neighbors(last) {
			if _, seen := visited[nb]; seen {
				continue
			}
			visited[nb] = struct{}{}
			next := make([]string, len(path), len(path)+1)
			copy(next, path)
			queue = append(queue, append(next, nb))
		}
	}
	return nil
}

// AnyPath returns some route from origin to destination, depth-first
// with an explicit stack. It is a fallback, not a quality guarantee:
// the path is the first one found, made deterministic by pushing
// neighbors in reverse insertion order so they pop in original order.
// Returns nil when either endpoint is absent or unreachable.
func (g *Graph) AnyPath(origin, destination string) []string {
	if !g.Contains(origin) || !g.Contains(destination) {
		return nil
	}

	type frame struct {
		node string
		path []string
	}
	stack := []frame{{node: origin, path: []string{origin}}}
	visited := make(map[string]struct{})

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.node == destination {
			return f.path
		}
		visited[f.node] = struct{}{}

		neighbors := g.Neighbors(f.node)
		for i := len(neighbors) - 1; i >= 0; i-- {
			nb := neighbors[i]
			if _, seen := visited[nb]; seen {
				continue
			}
			next := make([]string, len(f.path), len(f.path)+1)
			copy(next, f.path)
			stack = append(stack, frame{node: nb, path: append(next, nb)})
		}
	}
	return nil
}

// CheapestOptions tunes the bounded-cheapest enumeration. Zero values
// fall back to the defaults.
type CheapestOptions struct {
	MaxStops      int
	MaxExpansions int
}

// CheapestRoute enumerates simple paths from origin to destination up
// to a hop bound, prices each complete candidate through resolve, and
// keeps the minimum observed true total. Candidates that fail to
// resolve (a segment with no available leg) are skipped. The search is
// best-effort: the hop bound and the expansion cap are the only guards
// against exponential blow-up, so the result is not globally optimal.
// Returns a nil route when no bounded simple path both exists and
// resolves.
func (g *Graph) CheapestRoute(ctx context.Context, origin, destination string, resolve ResolveFunc, opts CheapestOptions) ([]string, float64, error) {
	if !g.Contains(origin) || !g.Contains(destination) {
		return nil, 0, nil
	}
	maxStops := opts.MaxStops
	if maxStops <= 0 {
		maxStops = DefaultMaxStops
	}
	maxExpansions := opts.MaxExpansions
	if maxExpansions <= 0 {
		maxExpansions = DefaultMaxExpansions
	}

	type frame struct {
		node string
		path []string
	}
	stack := []frame{{node: origin, path: []string{origin}}}

	var bestRoute []string
	bestTotal := math.Inf(1)
	expansions := 0

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		expansions++
		if expansions > maxExpansions {
			break
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if len(f.path)-1 > maxStops {
			continue
		}
		if f.node == destination {
			total, ok, err := resolve(ctx, f.path)
			if err != nil {
				return nil, 0, err
			}
			if ok && total < bestTotal {
				bestTotal = total
				bestRoute = f.path
			}
			continue
		}

		neighbors := g.Neighbors(f.node)
		for i := len(neighbors) - 1; i >= 0; i-- {
			nb := neighbors[i]
			if onPath(f.path, nb) {
				continue
			}
			next := make([]string, len(f.path), len(f.path)+1)
			copy(next, f.path)
			stack = append(stack, frame{node: nb, path: append(next, nb)})
		}
	}

	if bestRoute == nil {
		return nil, 0, nil
	}
	return bestRoute, bestTotal, nil
}

func onPath(path []string, node string) bool {
	for _, p := range path {
		if p == node {
			return true
		}
	}
	return false
}
