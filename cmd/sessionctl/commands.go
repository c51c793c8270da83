package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mindwell/sessionctl/internal/ctxstore"
	"github.com/mindwell/sessionctl/internal/lifecycle"
	"github.com/mindwell/sessionctl/internal/model"
	"github.com/mindwell/sessionctl/internal/poll"
)

const _actorKey = ctxstore.Key("actor")

// actorFrom recovers the authenticated user placed on the context in run.
func actorFrom(ctx context.Context) model.User {
	return ctxstore.MustFrom[model.User](ctx, _actorKey)
}

func (app *application) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return app.cmdList(ctx, args)
	case "show":
		return app.withSession(ctx, args, app.cmdShow)
	case "accept":
		return app.withSession(ctx, args, app.cmdAccept)
	case "reject":
		return app.withSession(ctx, args, app.cmdReject)
	case "start":
		return app.withSession(ctx, args, app.cmdStart)
	case "complete":
		return app.withSession(ctx, args, app.cmdComplete)
	case "join":
		return app.withSession(ctx, args, app.cmdJoin)
	case "book":
		return app.cmdBook(ctx, args)
	case "watch":
		return app.withSession(ctx, args, app.cmdWatch)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (app *application) withSession(
	ctx context.Context,
	args []string,
	fn func(context.Context, model.Session) error,
) error {
	if len(args) < 1 {
		usage()
		return errors.New("missing session id")
	}

	sess, err := app.api.Session(ctx, args[0])
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewError("session", model.ErrNotFound)
		}
		return err
	}

	return fn(ctx, sess)
}

func (app *application) cmdList(ctx context.Context, args []string) error {
	var filter lifecycle.Filter
	if len(args) > 0 && !strings.EqualFold(args[0], "ALL") {
		filter.Status = model.SessionStatus(strings.ToUpper(args[0]))
	}
	if len(args) > 1 && !strings.EqualFold(args[1], "ALL") {
		filter.Type = model.SessionType(strings.ToUpper(args[1]))
	}

	sessions, err := app.api.Sessions(ctx)
	if err != nil {
		return err
	}

	for _, sess := range lifecycle.Apply(sessions, filter) {
		fmt.Printf("%s  %-9s  %-10s  %s  %s\n",
			sess.ID, sess.Status, sess.Type,
			sess.StartTime.Format(time.RFC3339), sess.PsychologistAlias())
	}
	return nil
}

func (app *application) cmdShow(ctx context.Context, sess model.Session) error {
	actor := actorFrom(ctx)

	fmt.Printf("session %s\n", sess.ID)
	fmt.Printf("  status        %s\n", sess.Status)
	fmt.Printf("  type          %s\n", sess.Type)
	fmt.Printf("  psychologist  %s\n", sess.PsychologistAlias())
	fmt.Printf("  start         %s\n", sess.StartTime.Format(time.RFC3339))
	fmt.Printf("  duration      %s\n", sess.Duration())
	fmt.Printf("  price         %s\n", sess.Price.StringFixed(2))

	var available []string
	for _, action := range []lifecycle.Action{
		lifecycle.ActionAccept, lifecycle.ActionReject, lifecycle.ActionStart,
		lifecycle.ActionComplete, lifecycle.ActionJoin,
	} {
		if lifecycle.Decide(sess, actor, action).Allowed {
			available = append(available, string(action))
		}
	}
	fmt.Printf("  actions       %s\n", strings.Join(available, " "))
	return nil
}

func (app *application) cmdAccept(ctx context.Context, sess model.Session) error {
	updated, err := app.dispatcher.Accept(ctx, sess, actorFrom(ctx))
	if err != nil {
		return err
	}
	fmt.Printf("session %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func (app *application) cmdReject(ctx context.Context, sess model.Session) error {
	updated, err := app.dispatcher.Reject(ctx, sess, actorFrom(ctx))
	if err != nil {
		return err
	}
	fmt.Printf("session %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func (app *application) cmdStart(ctx context.Context, sess model.Session) error {
	updated, err := app.dispatcher.Start(ctx, sess, actorFrom(ctx))
	if errors.Is(err, lifecycle.ErrPresenceSync) {
		// The session is live; only the presence side channel failed.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		err = nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("session %s is now %s\n", updated.ID, updated.Status)
	return app.cmdJoin(ctx, updated)
}

func (app *application) cmdComplete(ctx context.Context, sess model.Session) error {
	updated, err := app.dispatcher.Complete(ctx, sess, actorFrom(ctx))
	if errors.Is(err, lifecycle.ErrPresenceSync) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		err = nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("session %s is now %s\n", updated.ID, updated.Status)
	return nil
}

// cmdJoin hands off to the conferencing layer: request a token, then hold
// the room open until the session completes, the user leaves, or the
// inactivity limit fires.
func (app *application) cmdJoin(ctx context.Context, sess model.Session) error {
	actor := actorFrom(ctx)

	entry, err := app.dispatcher.Join(sess, actor)
	if err != nil {
		return err
	}

	token, err := app.api.VideoToken(ctx, entry.SessionID)
	if err != nil {
		return err
	}
	fmt.Printf("joined room %s (token %s)\n", token.RoomName, token.Token)

	roomCtx, leave := context.WithCancel(ctx)
	defer leave()

	var inactivity *poll.InactivityTimer
	if actor.SessionTimeout > 0 {
		threshold := time.Duration(actor.SessionTimeout) * time.Minute
		inactivity = poll.NewInactivityTimer(threshold, func() {
			app.logger.Info("inactivity limit reached, leaving room")
			if err := app.api.SetPresence(context.Background(), model.PresenceOffline); err != nil {
				app.logger.Warn("presence update failed on inactivity logout", "error", err)
			}
			leave()
		})
		defer inactivity.Stop()
	}

	// Poll the session so the room closes once it completes elsewhere.
	refresher := poll.New(app.logger, poll.ChatRefreshInterval, func(ctx context.Context) {
		current, err := app.api.Session(ctx, entry.SessionID)
		if err != nil {
			app.logger.Warn("session refresh failed", "session", entry.SessionID, "error", err)
			return
		}
		if current.Status != model.StatusLive && current.Status != model.StatusScheduled {
			fmt.Printf("session is %s, leaving room\n", current.Status)
			leave()
		}
	})
	go refresher.Run(roomCtx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-roomCtx.Done():
			fmt.Println("left room")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println("left room")
				return nil
			}
			if inactivity != nil {
				inactivity.Touch()
			}
			if line != "" {
				fmt.Printf("[%s] %s\n", actor.Alias, line)
			}
		}
	}
}

func (app *application) cmdBook(ctx context.Context, args []string) error {
	if len(args) < 5 {
		usage()
		return errors.New("book needs PSYCHOLOGIST START END TYPE PRICE")
	}

	start, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, args[2])
	if err != nil {
		return fmt.Errorf("invalid end time: %w", err)
	}
	price, err := decimal.NewFromString(args[4])
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	req := lifecycle.BookRequest{
		PsychologistID: args[0],
		StartTime:      start,
		EndTime:        end,
		Type:           model.SessionType(strings.ToUpper(args[3])),
		Price:          price,
	}
	if len(args) > 5 {
		max, err := strconv.Atoi(args[5])
		if err != nil {
			return fmt.Errorf("invalid max participants: %w", err)
		}
		req.MaxParticipants = max
	}

	created, expected, err := app.dispatcher.Book(ctx, actorFrom(ctx), req)
	if err != nil {
		return err
	}

	fmt.Printf("booked session %s (%s), expected charge %s\n",
		created.ID, created.Status, expected.StringFixed(2))
	return nil
}

func (app *application) cmdWatch(ctx context.Context, sess model.Session) error {
	var demo model.DemoMinutes
	if actorFrom(ctx).Role == model.RolePatient {
		fetched, err := app.api.DemoMinutes(ctx, sess.PsychologistID)
		if err != nil {
			app.logger.Warn("demo minutes lookup failed", "error", err)
		} else {
			demo = fetched
		}
	}

	done := make(chan struct{})
	countdown := lifecycle.StartCountdown(sess, demo, func(tick lifecycle.Tick) {
		label := ""
		if tick.DemoActive {
			label = "  [free demo active]"
		}
		if tick.Urgent {
			label += "  (!)"
		}
		fmt.Printf("\r%s%s   ", tick.Display, label)

		if tick.Remaining == 0 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})
	defer countdown.Stop()

	select {
	case <-ctx.Done():
	case <-done:
	}
	fmt.Println()
	return nil
}
