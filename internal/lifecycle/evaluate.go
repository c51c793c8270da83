package lifecycle

import (
	"golang.org/x/exp/slices"

	"github.com/mindwell/sessionctl/internal/model"
)

// Permissions is the set of booleans derived from a (session, actor)
// pair. Pure, no I/O, no hidden state.
type Permissions struct {
	IsPsychologist bool
	IsPatient      bool
	IsPending      bool
	IsLive         bool
	CanStart       bool
	PatientCanJoin bool
}

func Evaluate(sess model.Session, actor model.User) Permissions {
	isPsychologist := actor.Role == model.RolePsychologist && actor.ID == sess.PsychologistID

	isParty := sess.PatientID != nil && *sess.PatientID == actor.ID
	isParticipant := slices.ContainsFunc(sess.Participants, func(ref model.UserRef) bool {
		return ref.ID == actor.ID
	})
	isPatient := actor.Role == model.RolePatient && (isParty || isParticipant)

	isPending := sess.Status == model.StatusPending
	isLive := sess.Status == model.StatusLive
	isScheduled := sess.Status == model.StatusScheduled

	// A group session may start with zero booked participants; a one-on-one
	// session needs its patient.
	canStart := isScheduled && (sess.HasPatient() || sess.Type == model.TypeGroup)

	// Group participants may enter the waiting room before LIVE; one-on-one
	// patients must wait for LIVE.
	patientCanJoin := isPatient && (isLive || (isScheduled && sess.Type == model.TypeGroup))

	return Permissions{
		IsPsychologist: isPsychologist,
		IsPatient:      isPatient,
		IsPending:      isPending,
		IsLive:         isLive,
		CanStart:       canStart,
		PatientCanJoin: patientCanJoin,
	}
}

type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionJoin     Action = "join"
)

// Capability is a tagged permission result: allowed or refused with the
// first failing reason. Callers offer an action only when Allowed.
type Capability struct {
	Allowed bool
	Reason  string
}

func allowed() Capability {
	return Capability{Allowed: true}
}

func refused(reason string) Capability {
	return Capability{Reason: reason}
}

// Decide is the single capability lookup for (session, actor, action);
// nothing else should re-derive these checks.
func Decide(sess model.Session, actor model.User, action Action) Capability {
	p := Evaluate(sess, actor)

	switch action {
	case ActionAccept:
		if !p.IsPsychologist {
			return refused("only the session's psychologist may accept it")
		}
		if dec := CanTransition(sess.Status, model.StatusScheduled); !dec.Allowed {
			return refused(dec.Reason)
		}
		return allowed()

	case ActionReject:
		if !p.IsPsychologist {
			return refused("only the session's psychologist may reject it")
		}
		if dec := CanTransition(sess.Status, model.StatusCancelled); !dec.Allowed {
			return refused(dec.Reason)
		}
		return allowed()

	case ActionStart:
		if !p.IsPsychologist {
			return refused("only the session's psychologist may start it")
		}
		if dec := CanTransition(sess.Status, model.StatusLive); !dec.Allowed {
			return refused(dec.Reason)
		}
		if !p.CanStart {
			return refused("a one-on-one session cannot start without a booked patient")
		}
		return allowed()

	case ActionComplete:
		if !p.IsPsychologist {
			return refused("only the session's psychologist may complete it")
		}
		if dec := CanTransition(sess.Status, model.StatusCompleted); !dec.Allowed {
			return refused(dec.Reason)
		}
		return allowed()

	case ActionJoin:
		if p.IsPsychologist {
			if !p.IsLive {
				return refused("session is not live")
			}
			return allowed()
		}
		if p.PatientCanJoin {
			return allowed()
		}
		return refused("not a participant of a joinable session")
	}

	return refused("unknown action")
}
