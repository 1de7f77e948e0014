// Package hazard decides whether a traveler may enter a gated location and
// how expensive planning edges are given what the traveler holds.
package hazard

import (
	"github.com/pixil98/go-lostlab/internal/world"
)

const (
	BaseWeight    = 1
	PenaltyWeight = 100
)

// Holder is anything that can answer whether an item is held.
type Holder interface {
	Has(item string) bool
}

// MissingRequirements returns the items loc requires that held lacks, in
// the order loc declares them. An empty result means entry is allowed.
func MissingRequirements(loc *world.Location, held Holder) []string {
	var missing []string
	for _, item := range loc.Requires {
		if !held.Has(item) {
			missing = append(missing, item)
		}
	}
	return missing
}

// Admits reports whether held satisfies every requirement of loc.
func Admits(loc *world.Location, held Holder) bool {
	return len(MissingRequirements(loc, held)) == 0
}

// Gate prices planning edges against a world graph.
type Gate struct {
	graph *world.Graph
}

func NewGate(g *world.Graph) *Gate {
	return &Gate{graph: g}
}

// EdgeWeight prices e for a traveler holding held. Edges touching a
// hazardous location the traveler cannot enter cost PenaltyWeight.
func (g *Gate) EdgeWeight(e world.Edge, held Holder) int {
	for _, name := range []string{e.A, e.B} {
		loc := g.graph.Location(name)
		if loc != nil && loc.Hazardous() && !Admits(loc, held) {
			return PenaltyWeight
		}
	}
	return BaseWeight
}

// Weights prices every planning edge. Call it right before each route
// query since holdings change between queries.
func (g *Gate) Weights(held Holder) map[world.Edge]int {
	edges := g.graph.Edges()
	weights := make(map[world.Edge]int, len(edges))
	for _, e := range edges {
		weights[e] = g.EdgeWeight(e, held)
	}
	return weights
}
