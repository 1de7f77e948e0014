package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pixil98/go-lostlab/internal/display"
	"github.com/pixil98/go-lostlab/internal/session"
)

// Player feeds lines from one connection into a session and writes back
// the results.
type Player struct {
	in      *bufio.Reader
	out     io.Writer
	session *session.Session

	lines chan string
	errs  chan error
}

func newPlayer(in *bufio.Reader, out io.Writer, s *session.Session) *Player {
	return &Player{
		in:      in,
		out:     out,
		session: s,
		lines:   make(chan string),
		errs:    make(chan error, 1),
	}
}

func (p *Player) Play(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Read input lines into a channel so ctx can interrupt the loop.
	go func() {
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case p.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		p.errs <- scanner.Err()
		close(p.lines)
	}()

	for _, cmd := range []string{"help", "look"} {
		if err := p.writeLine(p.session.Exec(ctx, cmd).Message); err != nil {
			return err
		}
	}
	if err := p.prompt(); err != nil {
		return err
	}

	for {
		line, err := p.next(ctx)
		if err != nil {
			return err
		}
		if line == nil {
			return nil
		}

		if strings.TrimSpace(*line) == "" {
			if err := p.prompt(); err != nil {
				return err
			}
			continue
		}

		res := p.session.Exec(ctx, *line)
		if res.Quit {
			return p.leave(ctx, res)
		}
		if err := p.writeLine(res.Message); err != nil {
			return err
		}
		if err := p.prompt(); err != nil {
			return err
		}
	}
}

// leave offers to save unfinished progress before saying goodbye.
func (p *Player) leave(ctx context.Context, res session.Result) error {
	if !res.State.Terminal() {
		if _, err := io.WriteString(p.out, "Save before leaving? (y/n) "); err != nil {
			return err
		}
		line, err := p.next(ctx)
		if err != nil {
			return err
		}
		if line != nil {
			switch strings.ToLower(strings.TrimSpace(*line)) {
			case "y", "yes":
				if err := p.writeLine(p.session.Exec(ctx, "save").Message); err != nil {
					return err
				}
			}
		}
	}
	return p.writeLine(res.Message)
}

// next returns the next input line, or nil once the connection is closed.
func (p *Player) next(ctx context.Context) (*string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return nil, <-p.errs
		}
		return &line, nil
	}
}

func (p *Player) prompt() error {
	t := p.session.Traveler()
	prompt := fmt.Sprintf("[%s %d/%d] > ", t.Location.Name, t.Items.Len(), p.session.TargetItems())
	_, err := io.WriteString(p.out, prompt)
	return err
}

func (p *Player) writeLine(msg string) error {
	_, err := io.WriteString(p.out, display.Wrap(msg)+"\n\n")
	return err
}
