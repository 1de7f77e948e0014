package world

import (
	"fmt"
	"sort"
	"strings"
)

// Edge is an undirected planning edge. A always sorts before B.
type Edge struct {
	A string
	B string
}

// NewEdge orders the pair so that {x, y} and {y, x} are the same edge.
func NewEdge(x, y string) Edge {
	if y < x {
		x, y = y, x
	}
	return Edge{A: x, B: y}
}

// Touches reports whether name is one of the edge's endpoints.
func (e Edge) Touches(name string) bool {
	return e.A == name || e.B == name
}

// Graph holds the world topology. It is built once at startup and its
// shape never changes afterwards; only location items are mutated.
type Graph struct {
	locations map[string]*Location
	edges     map[Edge]struct{}
	adjacent  map[string]map[string]struct{}
}

func NewGraph() *Graph {
	return &Graph{
		locations: make(map[string]*Location),
		edges:     make(map[Edge]struct{}),
		adjacent:  make(map[string]map[string]struct{}),
	}
}

// AddLocation registers a new location.
func (g *Graph) AddLocation(name, item string, requires ...string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("location name is required")
	}
	if _, ok := g.locations[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrLocationExists, name)
	}

	l := newLocation(name, item, requires)
	g.locations[name] = l
	g.adjacent[name] = make(map[string]struct{})
	return l, nil
}

// AddPassage registers a one-way passage from -> to and, if the pair is not
// already joined, an undirected planning edge between them.
func (g *Graph) AddPassage(from string, dir Direction, to string) error {
	d, ok := ParseDirection(string(dir))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	src, ok := g.locations[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocationNotFound, from)
	}
	dst, ok := g.locations[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocationNotFound, to)
	}

	src.exits[d] = dst

	e := NewEdge(from, to)
	if _, ok := g.edges[e]; !ok {
		g.edges[e] = struct{}{}
		g.adjacent[from][to] = struct{}{}
		g.adjacent[to][from] = struct{}{}
	}
	return nil
}

// ResolvePassage returns the location reached from `from` heading dir.
// dir is matched ignoring case. Returns nil if there is no such passage.
func (g *Graph) ResolvePassage(from string, dir string) *Location {
	l, ok := g.locations[from]
	if !ok {
		return nil
	}
	return l.Exit(dir)
}

// Location returns the named location or nil.
func (g *Graph) Location(name string) *Location {
	return g.locations[name]
}

// HasLocation reports whether name is a registered location.
func (g *Graph) HasLocation(name string) bool {
	_, ok := g.locations[name]
	return ok
}

// Names returns all location names in ascending order.
func (g *Graph) Names() []string {
	return sortedKeys(g.locations)
}

// Locations returns all locations ordered by name.
func (g *Graph) Locations() []*Location {
	names := g.Names()
	locs := make([]*Location, len(names))
	for i, n := range names {
		locs[i] = g.locations[n]
	}
	return locs
}

// Neighbors returns the names joined to name by a planning edge, ascending.
func (g *Graph) Neighbors(name string) []string {
	return sortedKeys(g.adjacent[name])
}

// Edges returns every planning edge ordered by (A, B).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}
