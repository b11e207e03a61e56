package game

import (
	"fmt"

	"github.com/agnivade/levenshtein"
)

// Action is a discrete player input.
type Action string

const (
	ActionMoveLeft      Action = "move-left"
	ActionMoveRight     Action = "move-right"
	ActionMoveDown      Action = "move-down"
	ActionRotate        Action = "rotate"
	ActionRotateCounter Action = "rotate-counter"
	ActionHardDrop      Action = "hard-drop"
	ActionHold          Action = "hold"
)

var actions = []Action{
	ActionMoveLeft,
	ActionMoveRight,
	ActionMoveDown,
	ActionRotate,
	ActionRotateCounter,
	ActionHardDrop,
	ActionHold,
}

// Actions lists every recognised action.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// unknownAction builds the rejection for an unrecognised action, naming
// the closest known action when the input looks like a typo.
func unknownAction(a Action) error {
	best, bestDist := Action(""), 3
	for _, known := range actions {
		if d := levenshtein.ComputeDistance(string(a), string(known)); d < bestDist {
			best, bestDist = known, d
		}
	}
	if best != "" {
		return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownAction, a, best)
	}
	return fmt.Errorf("%w %q", ErrUnknownAction, a)
}
