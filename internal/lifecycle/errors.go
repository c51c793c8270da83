package lifecycle

import "errors"

var (
	// ErrActionInFlight means another action from this dispatcher has not
	// finished yet.
	ErrActionInFlight = errors.New("another action is already in flight")

	ErrActionNotAllowed     = errors.New("action not allowed")
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// ErrPresenceSync wraps a presence-update failure that happened after
	// the session status change already succeeded. The transition is not
	// rolled back.
	ErrPresenceSync = errors.New("presence update failed")
)
