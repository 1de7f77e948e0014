package session

// State is the position of a session in the win/lose state machine.
type State int

const (
	Exploring State = iota
	Victory
	Defeat
)

func (s State) String() string {
	switch s {
	case Exploring:
		return "exploring"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == Victory || s == Defeat
}

// nextState applies the terminal check. Terminal states never change.
func nextState(cur State, location, terminal string, held, target int) State {
	if cur.Terminal() || location != terminal {
		return cur
	}
	if held == target {
		return Victory
	}
	return Defeat
}
