package navigation

import (
	"sort"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// ItemSet holds the items a traveler carries. Each item appears at most once.
// The zero value is an empty set ready to use.
type ItemSet struct {
	set   mapset.Set[string]
	ready bool
}

func NewItemSet(items ...string) ItemSet {
	var s ItemSet
	for _, i := range items {
		s.Add(i)
	}
	return s
}

func (s *ItemSet) Add(item string) {
	if !s.ready {
		s.set = mapset.New[string]()
		s.ready = true
	}
	s.set.Put(item)
}

func (s ItemSet) Has(item string) bool {
	return s.set.Has(item)
}

func (s ItemSet) Len() int {
	return s.set.Size()
}

// Find looks up an item ignoring case and returns its stored spelling.
func (s ItemSet) Find(name string) (string, bool) {
	var found string
	s.set.Each(func(item string) {
		if found == "" && strings.EqualFold(item, name) {
			found = item
		}
	})
	return found, found != ""
}

// Sorted returns the items in ascending order.
func (s ItemSet) Sorted() []string {
	items := make([]string, 0, s.set.Size())
	s.set.Each(func(item string) {
		items = append(items, item)
	})
	sort.Strings(items)
	return items
}
