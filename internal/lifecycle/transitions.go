package lifecycle

import (
	"fmt"

	"github.com/mindwell/sessionctl/internal/model"
)

// Transition is a single allowed edge in the session status machine. The
// backend remains authoritative; the client uses the table to refuse stale
// attempts with a usable reason instead of a round trip.
type Transition struct {
	From model.SessionStatus
	To   model.SessionStatus
}

// Decision records whether a transition is allowed and why it is refused.
type Decision struct {
	Allowed bool
	Reason  string
}

var transitionsTable = []Transition{
	{From: model.StatusPending, To: model.StatusScheduled}, // accept
	{From: model.StatusPending, To: model.StatusCancelled}, // reject
	{From: model.StatusScheduled, To: model.StatusLive},    // start
	{From: model.StatusScheduled, To: model.StatusCancelled},
	{From: model.StatusLive, To: model.StatusCompleted}, // complete
}

func CanTransition(from, to model.SessionStatus) Decision {
	for _, t := range transitionsTable {
		if t.From == from && t.To == to {
			return Decision{Allowed: true}
		}
	}
	return Decision{Reason: fmt.Sprintf("session is %s, cannot move to %s", from, to)}
}
