package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Action is the closed set of reactions a user can apply to a blog or user.
type Action string

const (
	ActionLike     Action = "like"
	ActionBookmark Action = "bookmark"
	ActionFollow   Action = "follow"
	ActionView     Action = "view"
)

var Actions = []Action{ActionLike, ActionBookmark, ActionFollow, ActionView}

// ParseAction returns the matching Action constant, never a view of s.
// Callers may pass strings backed by reused request buffers.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	for _, a := range Actions {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", ErrUnsupportedAction
}

func (a Action) IsValid() bool {
	switch a {
	case ActionLike, ActionBookmark, ActionFollow, ActionView:
		return true
	default:
		return false
	}
}

// InteractionResult is the membership state after an action was applied.
// Active is the new membership; Changed is false when the call was a no-op
// (a repeated view, or a toggle that lost a race to an identical one).
type InteractionResult struct {
	Action   Action    `json:"action"`
	TargetID uuid.UUID `json:"target_id"`
	Active   bool      `json:"active"`
	Changed  bool      `json:"changed"`
	Count    int64     `json:"count"`
}

// ToggleOutcome is what the store reports for a single atomic membership change.
type ToggleOutcome struct {
	Active  bool
	Changed bool
	Count   int64
}

// Added reports a positive transition, the only kind that may notify.
func (o ToggleOutcome) Added() bool {
	return o.Active && o.Changed
}
