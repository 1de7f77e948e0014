// Package navigation moves a traveler around the world graph, picks up
// items, and plans routes that account for hazard gates.
package navigation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pixil98/go-lostlab/internal/hazard"
	"github.com/pixil98/go-lostlab/internal/world"
)

// Engine applies movement and pickup rules on behalf of one traveler.
// It is not safe for concurrent use.
type Engine struct {
	graph    *world.Graph
	gate     *hazard.Gate
	traveler *Traveler
}

func NewEngine(g *world.Graph, t *Traveler) *Engine {
	return &Engine{
		graph:    g,
		gate:     hazard.NewGate(g),
		traveler: t,
	}
}

func (e *Engine) Graph() *world.Graph {
	return e.graph
}

func (e *Engine) Traveler() *Traveler {
	return e.traveler
}

// Move heads the traveler in dir. Nothing changes unless the move succeeds.
func (e *Engine) Move(dir string) (*world.Location, error) {
	dest := e.traveler.Location.Exit(dir)
	if dest == nil {
		return nil, ErrNoSuchPassage
	}

	encounter := hazard.MissingRequirements(dest, e.traveler.Items)
	if len(encounter) > 0 {
		missing := append([]string(nil), encounter...)
		sort.Strings(missing)
		return nil, &MissingRequirementsError{
			Location:  dest.Name,
			Missing:   missing,
			Encounter: encounter,
		}
	}

	e.traveler.Location = dest
	return dest, nil
}

// TakeItem moves the current location's item into the traveler's
// possession. name is matched ignoring case. Returns the item's real name.
// Asking for something already carried reports ErrItemAlreadyHeld whether
// or not the location still shows it.
func (e *Engine) TakeItem(name string) (string, error) {
	name = strings.TrimSpace(name)
	loc := e.traveler.Location
	if loc.Item == "" || !strings.EqualFold(loc.Item, name) {
		if _, held := e.traveler.Items.Find(name); held {
			return "", ErrItemAlreadyHeld
		}
		return "", ErrItemNotPresent
	}
	if e.traveler.Items.Has(loc.Item) {
		return "", ErrItemAlreadyHeld
	}

	item := loc.Item
	e.traveler.Items.Add(item)
	loc.Item = ""
	return item, nil
}

// Apply replaces the traveler's position and possessions and overwrites the
// carried item of every location named in roomItems. It fails without
// changing anything if location is not part of the graph.
func (e *Engine) Apply(location string, items []string, roomItems map[string]string) error {
	dest := e.graph.Location(location)
	if dest == nil {
		return fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	e.traveler.Location = dest
	e.traveler.Items = NewItemSet(items...)
	for _, l := range e.graph.Locations() {
		if item, ok := roomItems[l.Name]; ok {
			l.Item = item
		}
	}
	return nil
}
