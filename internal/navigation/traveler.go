package navigation

import "github.com/pixil98/go-lostlab/internal/world"

// Traveler is the entity whose position and possessions evolve via commands.
type Traveler struct {
	ID       int64
	Name     string
	Location *world.Location
	Items    ItemSet
}

func NewTraveler(id int64, name string, start *world.Location) *Traveler {
	return &Traveler{
		ID:       id,
		Name:     name,
		Location: start,
		Items:    NewItemSet(),
	}
}
