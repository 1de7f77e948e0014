package world

import "sort"

// Position is where a renderer should draw a location. The core never reads it.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Location is a node in the world graph.
type Location struct {
	Name     string
	Item     string   // empty when nothing is carried
	Requires []string // items that must be held to enter, in declared order
	Position Position

	exits map[Direction]*Location
}

func newLocation(name, item string, requires []string) *Location {
	return &Location{
		Name:     name,
		Item:     item,
		Requires: append([]string(nil), requires...),
		exits:    make(map[Direction]*Location),
	}
}

// Exit returns the location reached by heading dir, or nil.
func (l *Location) Exit(dir string) *Location {
	d, ok := ParseDirection(dir)
	if !ok {
		return nil
	}
	return l.exits[d]
}

// Exits returns the directions with a passage, in compass order.
func (l *Location) Exits() []Direction {
	dirs := make([]Direction, 0, len(l.exits))
	for _, d := range Directions {
		if _, ok := l.exits[d]; ok {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Hazardous reports whether entry is gated on held items.
func (l *Location) Hazardous() bool {
	return len(l.Requires) > 0
}

// RoomItems maps every location name to its carried item.
func RoomItems(locs []*Location) map[string]string {
	items := make(map[string]string, len(locs))
	for _, l := range locs {
		items[l.Name] = l.Item
	}
	return items
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
