// Package session runs one traveler's game: it dispatches commands to the
// navigation engine and the store, and evaluates the win/lose state machine.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-lostlab/internal/navigation"
	"github.com/pixil98/go-lostlab/internal/storage"
	"github.com/pixil98/go-lostlab/internal/world"
)

// Subjects the session publishes alerts on.
const (
	SubjectHazard  = "lostlab.hazard"
	SubjectOutcome = "lostlab.outcome"
)

// Store is the persistence a session needs.
type Store interface {
	Seed(ctx context.Context, rooms map[string]string) error
	RegisterOrFetchTraveler(ctx context.Context, name string, start string) (int64, error)
	Save(ctx context.Context, id int64, location string, items []string, rooms map[string]string) error
	Load(ctx context.Context, id int64, known storage.LocationLookup) (storage.Snapshot, error)
	AppendLog(ctx context.Context, id int64, action string, details string) error
	Outcomes(ctx context.Context) (storage.Outcomes, error)
}

// Publisher provides the ability to publish messages to subjects.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Deps are the collaborators a session is built from. Publisher is optional.
type Deps struct {
	World        *world.Spec
	Store        Store
	Publisher    Publisher
	TravelerName string
}

// HazardNotice describes a move refused by a hazard gate.
type HazardNotice struct {
	ID        string   `json:"id"`
	Location  string   `json:"location"`
	Missing   []string `json:"missing"`
	Encounter []string `json:"encounter"`
}

// OutcomeNotice is published once when a session reaches a terminal state.
type OutcomeNotice struct {
	ID         string `json:"id"`
	Session    string `json:"session"`
	TravelerID int64  `json:"traveler_id"`
	Traveler   string `json:"traveler"`
	Outcome    string `json:"outcome"`
	Items      int    `json:"items"`
}

// Result is what a command produces for the presentation layer.
type Result struct {
	Message string
	Route   []string
	Hazard  *HazardNotice
	State   State
	Quit    bool
}

// Session is one traveler's game. It is not safe for concurrent use.
type Session struct {
	id       string
	spec     *world.Spec
	engine   *navigation.Engine
	store    Store
	pub      Publisher
	state    State
	commands map[string]command
	log      *slog.Logger
}

// New registers or fetches the traveler, seeds the room items on first run,
// and places the traveler at the world's start.
func New(ctx context.Context, deps Deps) (*Session, error) {
	if deps.World == nil {
		return nil, fmt.Errorf("world is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	name := strings.TrimSpace(deps.TravelerName)
	if name == "" {
		return nil, fmt.Errorf("traveler name is required")
	}

	g, err := world.Build(deps.World)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	id, err := deps.Store.RegisterOrFetchTraveler(ctx, name, deps.World.Start)
	if err != nil {
		return nil, fmt.Errorf("registering traveler: %w", err)
	}

	if err := deps.Store.Seed(ctx, world.RoomItems(g.Locations())); err != nil {
		return nil, fmt.Errorf("seeding rooms: %w", err)
	}

	s := &Session{
		id:     uuid.New().String(),
		spec:   deps.World,
		engine: navigation.NewEngine(g, navigation.NewTraveler(id, name, g.Location(deps.World.Start))),
		store:  deps.Store,
		pub:    deps.Publisher,
		state:  Exploring,
	}
	s.commands = s.commandTable()
	s.log = slog.Default().With("session", s.id, "traveler", id)

	s.log.InfoContext(ctx, "session started", "name", name, "location", deps.World.Start)
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Traveler() *navigation.Traveler {
	return s.engine.Traveler()
}

func (s *Session) Graph() *world.Graph {
	return s.engine.Graph()
}

// TargetItems is how many items must be held at the terminal location to win.
func (s *Session) TargetItems() int {
	return s.spec.TargetItems
}

// Exec parses and runs one command line. Every error is converted into the
// result message.
func (s *Session) Exec(ctx context.Context, line string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{Message: "Please enter a command.", State: s.state}
	}

	token := strings.ToLower(fields[0])
	arg := strings.Join(fields[1:], " ")

	cmd, ok := s.commands[token]
	if !ok {
		return Result{Message: "Invalid action.", State: s.state}
	}

	if cmd.guarded && s.state.Terminal() {
		return Result{Message: "The game is over. " + s.outcomeMessage(), State: s.state}
	}

	res, err := cmd.run(ctx, arg)
	if err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) {
			res.Message = userErr.Message
		} else {
			s.log.ErrorContext(ctx, "command failed", "command", token, "error", err)
			res.Message = "Something went wrong, please try again."
		}
	} else if cmd.evaluates {
		s.evaluate(ctx, &res)
	}

	res.State = s.state
	return res
}

// evaluate runs the terminal check and records a transition exactly once.
func (s *Session) evaluate(ctx context.Context, res *Result) {
	t := s.engine.Traveler()
	next := nextState(s.state, t.Location.Name, s.spec.Terminal, t.Items.Len(), s.spec.TargetItems)
	if next == s.state {
		return
	}
	s.state = next

	action := storage.ActionLose
	details := fmt.Sprintf("Reached %s holding %d of %d items", t.Location.Name, t.Items.Len(), s.spec.TargetItems)
	if next == Victory {
		action = storage.ActionWin
	}
	s.audit(ctx, action, details)
	s.publish(ctx, SubjectOutcome, OutcomeNotice{
		ID:         uuid.New().String(),
		Session:    s.id,
		TravelerID: t.ID,
		Traveler:   t.Name,
		Outcome:    next.String(),
		Items:      t.Items.Len(),
	})

	s.log.InfoContext(ctx, "session ended", "outcome", next.String(), "items", t.Items.Len())
	res.Message = strings.TrimSpace(res.Message + "\n" + s.outcomeMessage())
}

func (s *Session) outcomeMessage() string {
	switch s.state {
	case Victory:
		return "You did it! You have conquered the Alien!"
	case Defeat:
		return "You were not prepared! The Alien has defeated you!"
	}
	return ""
}

// audit appends to the action log. Failures never reach the traveler.
func (s *Session) audit(ctx context.Context, action string, details string) {
	if err := s.store.AppendLog(ctx, s.engine.Traveler().ID, action, details); err != nil {
		s.log.WarnContext(ctx, "unable to append log", "action", action, "error", err)
	}
}

// publish sends a JSON alert if a publisher is configured.
func (s *Session) publish(ctx context.Context, subject string, v any) {
	if s.pub == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.log.ErrorContext(ctx, "marshalling alert", "subject", subject, "error", err)
		return
	}
	if err := s.pub.Publish(subject, data); err != nil {
		s.log.WarnContext(ctx, "unable to publish alert", "subject", subject, "error", err)
	}
}
