package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-lostlab/internal/navigation"
	"github.com/pixil98/go-lostlab/internal/storage"
	"github.com/pixil98/go-lostlab/internal/world"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var itemNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

var directionAliases = map[string]world.Direction{
	"north": world.North,
	"south": world.South,
	"east":  world.East,
	"west":  world.West,
	"n":     world.North,
	"s":     world.South,
	"e":     world.East,
	"w":     world.West,
}

// commandUsage is shown by help, in this order.
var commandUsage = []string{
	"move <north|south|east|west>   (or just n, s, e, w)",
	"take <item>                    pick up the item in this room",
	"route <room>                   shortest path to a room",
	"look                           describe where you are",
	"inventory                      list what you carry",
	"save                           save your progress",
	"load                           restore your saved progress",
	"stats                          win and loss counts",
	"help                           show this text",
	"quit                           leave the station",
}

type commandFunc func(ctx context.Context, arg string) (Result, error)

type command struct {
	run commandFunc
	// guarded commands are refused once the game is over.
	guarded bool
	// evaluates marks commands followed by the terminal-state check.
	evaluates bool
}

func (s *Session) commandTable() map[string]command {
	move := command{run: s.move, guarded: true, evaluates: true}
	take := command{run: s.take, guarded: true, evaluates: true}
	route := command{run: s.route}

	table := map[string]command{
		"move":      move,
		"go":        move,
		"take":      take,
		"get":       take,
		"route":     route,
		"path":      route,
		"save":      {run: s.save, guarded: true},
		"load":      {run: s.load, guarded: true, evaluates: true},
		"stats":     {run: s.stats},
		"look":      {run: s.look},
		"inventory": {run: s.inventory},
		"i":         {run: s.inventory},
		"help":      {run: s.help},
		"quit":      {run: s.quit},
	}
	for alias, dir := range directionAliases {
		d := dir
		table[alias] = command{
			run: func(ctx context.Context, _ string) (Result, error) {
				return s.move(ctx, string(d))
			},
			guarded:   true,
			evaluates: true,
		}
	}
	return table
}

func (s *Session) move(ctx context.Context, arg string) (Result, error) {
	if arg == "" {
		return Result{}, NewUserError("Please specify a direction.")
	}
	dir := strings.ToLower(arg)
	if d, ok := directionAliases[dir]; ok {
		dir = string(d)
	}

	dest, err := s.engine.Move(dir)
	var missing *navigation.MissingRequirementsError
	switch {
	case errors.As(err, &missing):
		notice := &HazardNotice{
			ID:        uuid.New().String(),
			Location:  missing.Location,
			Missing:   missing.Missing,
			Encounter: missing.Encounter,
		}
		s.publish(ctx, SubjectHazard, notice)
		s.log.InfoContext(ctx, "hazard blocked move", "location", missing.Location, "missing", missing.Missing)
		msg := fmt.Sprintf("Cannot enter %s: missing %s.", missing.Location, strings.Join(missing.Missing, ", "))
		return Result{Hazard: notice}, NewUserError(msg)
	case errors.Is(err, navigation.ErrNoSuchPassage):
		return Result{}, NewUserError("You can't go that way!")
	case err != nil:
		return Result{}, err
	}

	s.audit(ctx, storage.ActionMove, fmt.Sprintf("Moved %s to %s", dir, dest.Name))
	return Result{Message: fmt.Sprintf("You moved to %s.", dest.Name)}, nil
}

func (s *Session) take(ctx context.Context, arg string) (Result, error) {
	if arg == "" {
		return Result{}, NewUserError("Please specify an item to get.")
	}
	if !itemNamePattern.MatchString(arg) {
		return Result{}, NewUserError("Item name must contain only letters and spaces.")
	}

	item, err := s.engine.TakeItem(arg)
	switch {
	case errors.Is(err, navigation.ErrItemAlreadyHeld):
		return Result{}, NewUserError("You already have this item.")
	case errors.Is(err, navigation.ErrItemNotPresent):
		return Result{}, NewUserError(fmt.Sprintf("There is no %s here.", arg))
	case err != nil:
		return Result{}, err
	}

	s.audit(ctx, storage.ActionTake, fmt.Sprintf("Picked up %s in %s", item, s.engine.Traveler().Location.Name))
	return Result{Message: fmt.Sprintf("You picked up %s.", item)}, nil
}

func (s *Session) route(_ context.Context, arg string) (Result, error) {
	if arg == "" {
		return Result{}, NewUserError("Please specify a room.")
	}
	target := arg
	if !s.engine.Graph().HasLocation(target) {
		target = cases.Title(language.English).String(arg)
	}

	path, err := s.engine.ShortestPath(target)
	switch {
	case errors.Is(err, navigation.ErrUnknownLocation):
		return Result{}, NewUserError(fmt.Sprintf("Room '%s' does not exist.", target))
	case errors.Is(err, navigation.ErrNoRoute):
		return Result{}, NewUserError(fmt.Sprintf("No path to %s.", target))
	case err != nil:
		return Result{}, err
	}

	return Result{
		Message: fmt.Sprintf("Shortest path to %s: %s", target, strings.Join(path, " -> ")),
		Route:   path,
	}, nil
}

func (s *Session) save(ctx context.Context, _ string) (Result, error) {
	t := s.engine.Traveler()
	rooms := world.RoomItems(s.engine.Graph().Locations())
	if err := s.store.Save(ctx, t.ID, t.Location.Name, t.Items.Sorted(), rooms); err != nil {
		s.log.WarnContext(ctx, "unable to save", "error", err)
		return Result{}, NewUserError(fmt.Sprintf("Error saving game: %v", err))
	}

	s.audit(ctx, storage.ActionSave, fmt.Sprintf("Saved in %s with %d items", t.Location.Name, t.Items.Len()))
	return Result{Message: "Game saved to database."}, nil
}

func (s *Session) load(ctx context.Context, _ string) (Result, error) {
	t := s.engine.Traveler()
	snap, err := s.store.Load(ctx, t.ID, s.engine.Graph())
	var unknown *storage.UnknownLocationError
	switch {
	case errors.Is(err, storage.ErrNoSavedData):
		return Result{}, NewUserError("Error: No saved data for this player.")
	case errors.As(err, &unknown):
		return Result{}, NewUserError(fmt.Sprintf("Error: Saved room '%s' not found.", unknown.Location))
	case err != nil:
		s.log.WarnContext(ctx, "unable to load", "error", err)
		return Result{}, NewUserError(fmt.Sprintf("Error loading game: %v", err))
	}

	if err := s.engine.Apply(snap.Location, snap.Items, snap.RoomItems); err != nil {
		if errors.Is(err, navigation.ErrUnknownLocation) {
			return Result{}, NewUserError(fmt.Sprintf("Error: Saved room '%s' not found.", snap.Location))
		}
		return Result{}, err
	}

	s.audit(ctx, storage.ActionLoad, fmt.Sprintf("Loaded in %s with %d items", snap.Location, len(snap.Items)))
	return Result{Message: "Game loaded from database."}, nil
}

func (s *Session) stats(ctx context.Context, _ string) (Result, error) {
	out, err := s.store.Outcomes(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "unable to read outcomes", "error", err)
		return Result{}, NewUserError(fmt.Sprintf("Error reading win/lose data: %v", err))
	}
	if out.Total() == 0 {
		return Result{Message: "No win/lose data yet."}, nil
	}
	return Result{
		Message: fmt.Sprintf("Wins: %d, Losses: %d (%d%% won)", out.Wins, out.Losses, out.Wins*100/out.Total()),
	}, nil
}

func (s *Session) look(_ context.Context, _ string) (Result, error) {
	t := s.engine.Traveler()
	var exits []string
	for _, d := range t.Location.Exits() {
		exits = append(exits, d.String())
	}

	msg, err := ExpandTemplate(statusTemplate, statusData{
		Location: t.Location.Name,
		Items:    t.Items.Sorted(),
		Item:     t.Location.Item,
		Exits:    exits,
	})
	if err != nil {
		return Result{}, fmt.Errorf("rendering status: %w", err)
	}
	return Result{Message: msg}, nil
}

func (s *Session) inventory(_ context.Context, _ string) (Result, error) {
	items := s.engine.Traveler().Items.Sorted()
	if len(items) == 0 {
		return Result{Message: "Inventory: Empty"}, nil
	}
	return Result{
		Message: fmt.Sprintf("Inventory: %s (%d of %d)", strings.Join(items, ", "), len(items), s.spec.TargetItems),
	}, nil
}

func (s *Session) help(_ context.Context, _ string) (Result, error) {
	msg, err := ExpandTemplate(helpTemplate, map[string]any{
		"TargetItems": s.spec.TargetItems,
		"Terminal":    s.spec.Terminal,
		"Commands":    commandUsage,
	})
	if err != nil {
		return Result{}, fmt.Errorf("rendering help: %w", err)
	}
	return Result{Message: strings.TrimRight(msg, "\n")}, nil
}

func (s *Session) quit(ctx context.Context, _ string) (Result, error) {
	s.log.InfoContext(ctx, "traveler quit", "state", s.state.String())
	return Result{Message: "Goodbye.", Quit: true}, nil
}
