// Package player adapts a line-oriented connection to a game session.
package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/pixil98/go-lostlab/internal/session"
	"github.com/pixil98/go-lostlab/internal/world"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z ]{0,31}$`)

type Manager struct {
	world *world.Spec
	store session.Store
	pub   session.Publisher
	// name is used for every connection when set; otherwise each
	// connection is asked for one.
	name string
}

func NewManager(w *world.Spec, store session.Store, pub session.Publisher, name string) *Manager {
	return &Manager{
		world: w,
		store: store,
		pub:   pub,
		name:  name,
	}
}

// RunSession plays one game over conn until the traveler quits or the
// connection closes.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	in := bufio.NewReader(conn)

	if _, err := io.WriteString(conn, "Welcome to the Lost Lab.\n\n"); err != nil {
		return err
	}

	name := m.name
	if name == "" {
		var err error
		name, err = Prompt(in, conn, "What is your name, traveler? ", WithValidator(validName), WithMaxTries(3))
		if err != nil {
			return fmt.Errorf("reading traveler name: %w", err)
		}
	}

	s, err := session.New(ctx, session.Deps{
		World:        m.world,
		Store:        m.store,
		Publisher:    m.pub,
		TravelerName: name,
	})
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	slog.InfoContext(ctx, "traveler connected", "session", s.ID(), "name", name)
	err = newPlayer(in, conn, s).Play(ctx)
	slog.InfoContext(ctx, "traveler disconnected", "session", s.ID(), "state", s.State().String())
	return err
}

func validName(s string) (bool, string) {
	if !namePattern.MatchString(s) {
		return false, "Names use letters and spaces only, up to 32 characters.\n"
	}
	return true, ""
}
