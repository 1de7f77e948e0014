package navigation

import (
	"fmt"

	"github.com/pixil98/go-lostlab/internal/world"
	"github.com/zyedidia/generic/heap"
)

type routeEntry struct {
	name string
	dist int
}

// routeLess orders by distance, then by name so that ties always expand
// the same way.
func routeLess(a, b routeEntry) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.name < b.name
}

// ShortestPath returns the cheapest route from the traveler's location to
// target, inclusive of both ends. Edge weights are recomputed from current
// holdings on every call.
func (e *Engine) ShortestPath(target string) ([]string, error) {
	if !e.graph.HasLocation(target) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, target)
	}

	weights := e.gate.Weights(e.traveler.Items)
	source := e.traveler.Location.Name

	dist := map[string]int{source: 0}
	prev := map[string]string{}
	done := map[string]bool{}

	pq := heap.New[routeEntry](routeLess)
	pq.Push(routeEntry{name: source})

	for pq.Size() > 0 {
		cur, _ := pq.Pop()
		if done[cur.name] {
			continue
		}
		done[cur.name] = true
		if cur.name == target {
			break
		}

		for _, n := range e.graph.Neighbors(cur.name) {
			if done[n] {
				continue
			}
			nd := cur.dist + weights[world.NewEdge(cur.name, n)]
			// Only a strictly cheaper path replaces the one found first.
			if d, ok := dist[n]; !ok || nd < d {
				dist[n] = nd
				prev[n] = cur.name
				pq.Push(routeEntry{name: n, dist: nd})
			}
		}
	}

	if !done[target] {
		return nil, fmt.Errorf("%w to %s", ErrNoRoute, target)
	}

	path := []string{target}
	for at := target; at != source; {
		at = prev[at]
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}
