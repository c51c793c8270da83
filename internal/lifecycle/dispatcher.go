package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mindwell/sessionctl/internal/apiclient"
	"github.com/mindwell/sessionctl/internal/billing"
	"github.com/mindwell/sessionctl/internal/model"
	"github.com/mindwell/sessionctl/internal/validator"
)

// API is the slice of the backend client the dispatcher needs.
type API interface {
	Session(ctx context.Context, id model.ID) (model.Session, error)
	AcceptSession(ctx context.Context, id model.ID) error
	RejectSession(ctx context.Context, id model.ID) error
	SetSessionStatus(ctx context.Context, id model.ID, status model.SessionStatus) (model.Session, error)
	SetPresence(ctx context.Context, status model.PresenceStatus) error
	DemoMinutes(ctx context.Context, psychologistID model.ID) (model.DemoMinutes, error)
	BookSession(ctx context.Context, req apiclient.BookSessionRequest) (model.Session, error)
}

// ConfirmFunc asks the user to approve an action before any call is
// issued. A nil hook approves everything.
type ConfirmFunc func(prompt string) bool

// Dispatcher executes role-gated session actions. Actions are mutually
// exclusive: a single in-flight flag refuses concurrent submission from
// the same dispatcher.
type Dispatcher struct {
	api     API
	logger  *slog.Logger
	confirm ConfirmFunc

	inFlight atomic.Bool
}

func NewDispatcher(logger *slog.Logger, api API, confirm ConfirmFunc) *Dispatcher {
	return &Dispatcher{
		api:     api,
		logger:  logger.With("module", "dispatcher"),
		confirm: confirm,
	}
}

// Accept confirms and accepts a pending session, then re-fetches it so the
// caller sees the backend's resulting state. Funds move server-side.
func (d *Dispatcher) Accept(ctx context.Context, sess model.Session, actor model.User) (model.Session, error) {
	release, err := d.acquire()
	if err != nil {
		return sess, err
	}
	defer release()

	if cap := Decide(sess, actor, ActionAccept); !cap.Allowed {
		return sess, fmt.Errorf("%w: %s", ErrActionNotAllowed, cap.Reason)
	}
	if !d.confirmed("Accept this session? The patient's funds will be transferred to you.") {
		return sess, ErrConfirmationDeclined
	}

	if err := d.api.AcceptSession(ctx, sess.ID); err != nil {
		return sess, err
	}

	d.logger.Info("session accepted", "session", sess.ID)
	return d.api.Session(ctx, sess.ID)
}

// Reject confirms and rejects a pending session, then re-fetches it. The
// patient is refunded server-side.
func (d *Dispatcher) Reject(ctx context.Context, sess model.Session, actor model.User) (model.Session, error) {
	release, err := d.acquire()
	if err != nil {
		return sess, err
	}
	defer release()

	if cap := Decide(sess, actor, ActionReject); !cap.Allowed {
		return sess, fmt.Errorf("%w: %s", ErrActionNotAllowed, cap.Reason)
	}
	if !d.confirmed("Reject this session? The patient will be refunded.") {
		return sess, ErrConfirmationDeclined
	}

	if err := d.api.RejectSession(ctx, sess.ID); err != nil {
		return sess, err
	}

	d.logger.Info("session rejected", "session", sess.ID)
	return d.api.Session(ctx, sess.ID)
}

// Start moves a scheduled session to LIVE and then flips the
// psychologist's presence to BUSY, strictly in that order. If the status
// change fails the presence call is never issued. If the presence call
// fails the status change stays applied and the error is surfaced as
// ErrPresenceSync alongside the updated session.
func (d *Dispatcher) Start(ctx context.Context, sess model.Session, actor model.User) (model.Session, error) {
	return d.transition(ctx, sess, actor, ActionStart, model.StatusLive, model.PresenceBusy)
}

// Complete moves a live session to COMPLETED and then flips the
// psychologist's presence back to ONLINE, with the same two-call contract
// as Start.
func (d *Dispatcher) Complete(ctx context.Context, sess model.Session, actor model.User) (model.Session, error) {
	return d.transition(ctx, sess, actor, ActionComplete, model.StatusCompleted, model.PresenceOnline)
}

func (d *Dispatcher) transition(
	ctx context.Context,
	sess model.Session,
	actor model.User,
	action Action,
	status model.SessionStatus,
	presence model.PresenceStatus,
) (model.Session, error) {
	release, err := d.acquire()
	if err != nil {
		return sess, err
	}
	defer release()

	if cap := Decide(sess, actor, action); !cap.Allowed {
		return sess, fmt.Errorf("%w: %s", ErrActionNotAllowed, cap.Reason)
	}

	updated, err := d.api.SetSessionStatus(ctx, sess.ID, status)
	if err != nil {
		return sess, err
	}

	d.logger.Info("session status changed", "session", sess.ID, "status", status)

	if err := d.api.SetPresence(ctx, presence); err != nil {
		d.logger.Warn("presence update failed after status change",
			"session", sess.ID, "presence", presence, "error", err)
		return updated, fmt.Errorf("%w: %v", ErrPresenceSync, err)
	}

	return updated, nil
}

// RoomEntry is the hand-off to the conferencing layer. Join itself issues
// no backend calls; the room requests its own video token.
type RoomEntry struct {
	SessionID model.ID
}

func (d *Dispatcher) Join(sess model.Session, actor model.User) (RoomEntry, error) {
	if cap := Decide(sess, actor, ActionJoin); !cap.Allowed {
		return RoomEntry{}, fmt.Errorf("%w: %s", ErrActionNotAllowed, cap.Reason)
	}
	return RoomEntry{SessionID: sess.ID}, nil
}

type BookRequest struct {
	PsychologistID  model.ID
	StartTime       time.Time
	EndTime         time.Time
	Type            model.SessionType
	Price           decimal.Decimal
	MaxParticipants int
}

// Book creates a session: a patient books a one-on-one slot, a
// psychologist opens a group slot. For patient bookings the returned
// price is the demo-minute discounted amount the patient can expect to be
// charged; the backend still owns the authoritative charge.
func (d *Dispatcher) Book(ctx context.Context, actor model.User, req BookRequest) (model.Session, decimal.Decimal, error) {
	release, err := d.acquire()
	if err != nil {
		return model.Session{}, decimal.Zero, err
	}
	defer release()

	var v validator.Validator
	v.CheckField(validator.NotBlank(req.PsychologistID), "psychologistId", "cannot be blank")
	v.CheckField(!req.StartTime.IsZero(), "startTime", "cannot be empty")
	v.CheckField(req.EndTime.After(req.StartTime), "endTime", "must be after start time")
	v.CheckField(!req.Price.IsNegative(), "price", "must not be negative")
	v.CheckField(req.Type == model.TypeOneOnOne || req.Type == model.TypeGroup, "type", "must be ONE_ON_ONE or GROUP")
	if req.Type == model.TypeGroup {
		v.CheckField(req.MaxParticipants >= 1, "maxParticipants", "must be at least 1")
	}
	if v.HasErrors() {
		return model.Session{}, decimal.Zero, fmt.Errorf("%w: %s", ErrActionNotAllowed, v.Summary())
	}

	apiReq := apiclient.BookSessionRequest{
		PsychologistID:  req.PsychologistID,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Type:            req.Type,
		Price:           req.Price,
		MaxParticipants: req.MaxParticipants,
	}

	expected := req.Price
	if actor.Role == model.RolePatient && req.Type == model.TypeOneOnOne {
		apiReq.PatientID = &actor.ID

		demo, err := d.api.DemoMinutes(ctx, req.PsychologistID)
		if err != nil {
			// The discount preview is advisory; booking proceeds at list price.
			d.logger.Warn("demo minutes lookup failed", "psychologist", req.PsychologistID, "error", err)
		} else {
			expected = billing.EffectivePrice(req.Price, req.EndTime.Sub(req.StartTime), demo.Remaining)
		}
	}

	created, err := d.api.BookSession(ctx, apiReq)
	if err != nil {
		return model.Session{}, decimal.Zero, err
	}

	d.logger.Info("session booked", "session", created.ID, "type", created.Type)
	return created, expected, nil
}

func (d *Dispatcher) acquire() (func(), error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return nil, ErrActionInFlight
	}
	return func() { d.inFlight.Store(false) }, nil
}

func (d *Dispatcher) confirmed(prompt string) bool {
	if d.confirm == nil {
		return true
	}
	return d.confirm(prompt)
}
