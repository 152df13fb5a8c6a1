package rental

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

type principal int

const (
	byAdmin principal = iota
	byOwner
)

type transition struct {
	from Status
	to   Status
	by   principal
}

var transitions = map[Action]transition{
	ActionApprove:  {from: StatusPending, to: StatusApproved, by: byAdmin},
	ActionReject:   {from: StatusPending, to: StatusRejected, by: byAdmin},
	ActionComplete: {from: StatusApproved, to: StatusCompleted, by: byAdmin},
	ActionCancel:   {from: StatusPending, to: StatusCancelled, by: byOwner},
}

// ParseAction returns the action named s and whether it exists.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	_, ok := transitions[a]
	return a, ok
}

// Transition validates action against the booking's current status and the acting
// principal, and returns the status the booking moves to. ownerID is the requester
// who created the booking. Nothing is persisted here.
func Transition(current Status, action Action, actor *Actor, ownerID string) (Status, error) {
	if !actor.Authenticated() {
		return "", ErrAuthenticationRequired
	}

	t, ok := transitions[action]
	if !ok || t.from != current {
		return "", ErrInvalidTransition
	}
	if !permitted(t, actor, ownerID) {
		return "", ErrForbidden
	}
	return t.to, nil
}

// AllowedActions lists what actor may do with a booking in status current.
func AllowedActions(current Status, actor *Actor, ownerID string) []Action {
	out := make([]Action, 0, 2)
	if !actor.Authenticated() {
		return out
	}
	for _, a := range []Action{ActionApprove, ActionReject, ActionComplete, ActionCancel} {
		t := transitions[a]
		if t.from == current && permitted(t, actor, ownerID) {
			out = append(out, a)
		}
	}
	return out
}

func permitted(t transition, actor *Actor, ownerID string) bool {
	switch t.by {
	case byAdmin:
		return actor.IsAdmin()
	case byOwner:
		return ownerID != "" && actor.UserID == ownerID
	default:
		return false
	}
}
