package world

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// LocationSpec declares one location and its outgoing passages.
type LocationSpec struct {
	Name     string            `json:"name"`
	Item     string            `json:"item,omitempty"`
	Requires []string          `json:"requires,omitempty"`
	Position Position          `json:"position"`
	Exits    map[string]string `json:"exits"` // direction -> location name
}

// Spec is a complete world definition.
type Spec struct {
	Locations   []LocationSpec `json:"locations"`
	Start       string         `json:"start"`
	Terminal    string         `json:"terminal"`
	TargetItems int            `json:"target_items"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *Spec) Validate() error {
	el := errors.NewErrorList()

	names := make(map[string]bool, len(s.Locations))
	for i, l := range s.Locations {
		if l.Name == "" {
			el.Add(fmt.Errorf("location %d: name is required", i))
			continue
		}
		if names[l.Name] {
			el.Add(fmt.Errorf("location %q: duplicate name", l.Name))
		}
		names[l.Name] = true
	}

	for _, l := range s.Locations {
		seen := make(map[Direction]bool, len(l.Exits))
		for dir, to := range l.Exits {
			d, ok := ParseDirection(dir)
			if !ok {
				el.Add(fmt.Errorf("location %q: unknown direction %q", l.Name, dir))
			} else if seen[d] {
				el.Add(fmt.Errorf("location %q: duplicate direction %s", l.Name, d))
			}
			seen[d] = true
			if !names[to] {
				el.Add(fmt.Errorf("location %q: exit %s leads to unknown location %q", l.Name, dir, to))
			}
		}
	}

	if s.Start == "" {
		el.Add(fmt.Errorf("start is required"))
	} else if !names[s.Start] {
		el.Add(fmt.Errorf("start %q is not a location", s.Start))
	}
	if s.Terminal == "" {
		el.Add(fmt.Errorf("terminal is required"))
	} else if !names[s.Terminal] {
		el.Add(fmt.Errorf("terminal %q is not a location", s.Terminal))
	}
	if s.TargetItems <= 0 {
		el.Add(fmt.Errorf("target_items must be positive"))
	}

	return el.Err()
}

// Build validates the world definition and constructs its graph.
func Build(s *Spec) (*Graph, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}

	g := NewGraph()
	for _, ls := range s.Locations {
		l, err := g.AddLocation(ls.Name, ls.Item, ls.Requires...)
		if err != nil {
			return nil, err
		}
		l.Position = ls.Position
	}

	for _, ls := range s.Locations {
		exits := make(map[Direction]string, len(ls.Exits))
		for dir, to := range ls.Exits {
			d, _ := ParseDirection(dir)
			exits[d] = to
		}
		// Walk exits in compass order so edge creation is deterministic.
		for _, d := range Directions {
			to, ok := exits[d]
			if !ok {
				continue
			}
			if err := g.AddPassage(ls.Name, d, to); err != nil {
				return nil, fmt.Errorf("location %q: %w", ls.Name, err)
			}
		}
	}

	return g, nil
}
