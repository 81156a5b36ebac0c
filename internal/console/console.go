// Package console runs the operator workflows: validate the form, call the
// backend, reconcile the answer and keep each view's result area current.
package console

import (
	"context"
	"log/slog"
	"time"

	"ops-console/internal/client"
	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/render"
	"ops-console/internal/session"
)

// defaultIdle is how long an unused result area is kept when its session
// carries no expiry.
const defaultIdle = 8 * time.Hour

type Backend interface {
	Send(ctx context.Context, op client.Operation, req client.Request, opts client.Options) (*client.Response, error)
}

// Dialer binds a backend to the caller's session.
type Dialer func(s *session.Session) Backend

// FromClient authorizes every call with the caller's session token.
func FromClient(c *client.Client) Dialer {
	return func(s *session.Session) Backend {
		return c.WithSession(s)
	}
}

type Recorder interface {
	ObserveOutcome(operation, kind string)
	ObserveStale(view string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOutcome(string, string) {}
func (nopRecorder) ObserveStale(string)           {}

type Console struct {
	log      *slog.Logger
	dial     Dialer
	forms    *form.Validator
	rec      *reconcile.Reconciler
	fmt      render.Formatter
	boards   *Boards
	recorder Recorder
	now      func() time.Time
	idle     time.Duration
}

type Option func(*Console)

func WithLogger(log *slog.Logger) Option {
	return func(c *Console) { c.log = log }
}

func WithRecorder(r Recorder) Option {
	return func(c *Console) { c.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

// WithIdleTimeout sets how long the result areas of a session without an
// expiry survive without use.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Console) {
		if d > 0 {
			c.idle = d
		}
	}
}

func New(dial Dialer, forms *form.Validator, f render.Formatter, opts ...Option) *Console {
	c := &Console{
		log:      slog.Default(),
		dial:     dial,
		forms:    forms,
		rec:      reconcile.New(f),
		fmt:      f,
		boards:   NewBoards(),
		recorder: nopRecorder{},
		now:      time.Now,
		idle:     defaultIdle,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// board returns the result areas of s. A caller without a session gets a
// fresh board that is never kept, so nothing is shared between strangers.
func (c *Console) board(s *session.Session) *Board {
	if !identified(s) {
		return NewBoard()
	}
	return c.boards.For(s.ID, s.Claims.ExpiresAt, c.now())
}

func identified(s *session.Session) bool {
	return s != nil && s.ID != ""
}

// Forget drops the result areas of a session, used on logout.
func (c *Console) Forget(s *session.Session) {
	if identified(s) {
		c.boards.Drop(s.ID)
	}
}

// Latest returns the last committed result of view for the session. Callers
// without a session have none.
func (c *Console) Latest(s *session.Session, view render.View) (Snapshot, bool) {
	if !identified(s) {
		return Snapshot{}, false
	}
	return c.boards.For(s.ID, s.Claims.ExpiresAt, c.now()).Latest(view)
}

// Prune drops the result areas of expired or long unused sessions.
func (c *Console) Prune() int {
	return c.boards.Prune(c.now(), c.idle)
}

func (c *Console) observe(out reconcile.Outcome) {
	c.recorder.ObserveOutcome(out.Operation, string(out.Kind))
}

func (c *Console) invalid(op client.Operation, failure *form.Failure) reconcile.Outcome {
	out := c.rec.Invalid(op, failure)
	c.observe(out)
	return out
}

// send performs one backend round trip. Errors never escape: they come back
// as transport outcomes with resp nil.
func (c *Console) send(ctx context.Context, s *session.Session, op client.Operation, req client.Request, opts client.Options) (*client.Response, *reconcile.Outcome) {
	const fn = "console.send"

	resp, err := c.dial(s).Send(ctx, op, req, opts)
	if err != nil {
		c.log.Error("backend call failed",
			slog.String("op", fn),
			slog.String("operation", string(op)),
			slog.String("error", err.Error()),
		)
		out := c.rec.Transport(op, err)
		return nil, &out
	}

	return resp, nil
}
