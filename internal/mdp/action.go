package mdp

import "fmt"

// Action is a discrete control applied to a non-terminal state.
type Action int8

const (
	Stay Action = iota
	RadialUp
	RadialDown
	AzimuthUp
	AzimuthDown
	ElevationUp
	ElevationDown
)

// Terminal marks obstacle and goal states, which take no action.
const Terminal Action = -1

// NumActions is the size of the action set.
const NumActions = 7

var actionNames = [NumActions]string{
	"stay", "r+", "r-", "theta+", "theta-", "phi+", "phi-",
}

// Actions lists every action in ascending id order.
func Actions() []Action {
	return []Action{Stay, RadialUp, RadialDown, AzimuthUp, AzimuthDown, ElevationUp, ElevationDown}
}

func (a Action) IsTerminal() bool { return a == Terminal }

func (a Action) Valid() bool { return a == Terminal || (a >= 0 && a < NumActions) }

func (a Action) String() string {
	if a == Terminal {
		return "terminal"
	}
	if a >= 0 && a < NumActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int8(a))
}

// Glyph is a one-character rendering used by the terminal views.
func (a Action) Glyph() rune {
	switch a {
	case Stay:
		return '.'
	case RadialUp:
		return '^'
	case RadialDown:
		return 'v'
	case AzimuthUp:
		return '>'
	case AzimuthDown:
		return '<'
	case ElevationUp:
		return '+'
	case ElevationDown:
		return '-'
	case Terminal:
		return '#'
	}
	return '?'
}
