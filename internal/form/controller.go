// Package form owns submission gating for the registration form: whether the
// visitor can submit right now, and why not if not.
package form

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/waitingroom/backend/internal/challenge"
	"github.com/waitingroom/backend/internal/models"
	"github.com/waitingroom/backend/internal/window"
)

// SubmissionState is the controller's submit lifecycle state.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// GateReason explains why the submit action is disabled, or "ready".
type GateReason string

const (
	ReasonWaitingForChallenge GateReason = "waiting_for_challenge"
	ReasonTooEarly            GateReason = "too_early"
	ReasonTooLate             GateReason = "too_late"
	ReasonSubmitting          GateReason = "submitting"
	ReasonAlreadyRegistered   GateReason = "already_registered"
	ReasonReady               GateReason = "ready"
)

// GateState is the submit gate: disabled plus the user-facing reason.
type GateState struct {
	Disabled bool       `json:"disabled"`
	Reason   GateReason `json:"reason"`
}

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// call has not resolved. The duplicate call never reaches the network.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrAlreadyRegistered is returned for any Submit after a success.
	// Success is terminal for a controller instance.
	ErrAlreadyRegistered = errors.New("already registered")
)

// GateClosedError is returned when the gate rejects a submit attempt
// (missing token, outside the window).
type GateClosedError struct {
	Reason GateReason
}

func (e *GateClosedError) Error() string {
	return "submission gate closed: " + string(e.Reason)
}

// Registrar is the remote mutation boundary. The call is fire-once: the
// controller never retries it automatically, since a duplicate registration
// is worse than a visible failure.
type Registrar interface {
	Register(ctx context.Context, input RegisterInput) (*models.Registrant, error)
}

// NowSource supplies the current time, typically a *window.Clock.
type NowSource interface {
	Now() time.Time
}

// ComputeGate derives the gate from window status, token presence and
// submission state. Pure; identical inputs give identical output. The first
// matching reason wins, in this order: missing token, too early, too late,
// in-flight, already succeeded.
func ComputeGate(status window.Status, token string, state SubmissionState) GateState {
	switch {
	case token == "":
		return GateState{Disabled: true, Reason: ReasonWaitingForChallenge}
	case status == window.StatusEarly:
		return GateState{Disabled: true, Reason: ReasonTooEarly}
	case status == window.StatusLate:
		return GateState{Disabled: true, Reason: ReasonTooLate}
	case state == StateValidating || state == StateSubmitting:
		return GateState{Disabled: true, Reason: ReasonSubmitting}
	case state == StateSucceeded:
		return GateState{Disabled: true, Reason: ReasonAlreadyRegistered}
	default:
		return GateState{Disabled: false, Reason: ReasonReady}
	}
}

// Controller composes the token store, window classifier and remote registrar
// into the registration submit state machine:
//
//	idle -> validating -> submitting -> succeeded (terminal)
//	                                 -> failed    (re-submittable)
//
// At most one call is in flight; succeeded never re-enables the form for this
// instance. A new controller (page reload) is required to submit again.
type Controller struct {
	mu sync.Mutex

	clock     NowSource
	tokens    *challenge.Store
	registrar Registrar
	validate  *validator.Validate

	opensAt  time.Time
	closesAt time.Time

	state  SubmissionState
	result *models.Registrant
}

// NewController creates a form controller for one registration window.
func NewController(clock NowSource, tokens *challenge.Store, registrar Registrar, opensAt, closesAt time.Time) *Controller {
	return &Controller{
		clock:     clock,
		tokens:    tokens,
		registrar: registrar,
		validate:  NewValidator(),
		opensAt:   opensAt,
		closesAt:  closesAt,
		state:     StateIdle,
	}
}

// SetWindow replaces the registration window wholesale, e.g. after the
// organizer edited the room. Gating reflects the new window on the next read.
func (c *Controller) SetWindow(opensAt, closesAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opensAt = opensAt
	c.closesAt = closesAt
}

// State returns the current submission state.
func (c *Controller) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the registrant created by a successful submit, or nil.
func (c *Controller) Result() *models.Registrant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Status classifies the window against the clock's current time.
func (c *Controller) Status() window.Status {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	return window.Classify(now, c.opensAt, c.closesAt)
}

// GateState reports whether submit is currently possible and why not if not.
func (c *Controller) GateState() GateState {
	now := c.clock.Now()
	token := c.tokens.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	status := window.Classify(now, c.opensAt, c.closesAt)
	return ComputeGate(status, token, c.state)
}

// Validate runs structural field validation and returns per-field reasons.
func (c *Controller) Validate(input RegisterInput) *ValidationError {
	err := c.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "input", Reason: err.Error()}}}
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Reason: fe.Tag()})
	}
	return out
}

// Submit validates the input, checks the gate and performs the remote
// registration. Exactly one call can be in flight; while it is, the gate
// reports "submitting" and further Submit calls fail without a network call.
// On success the controller is terminally succeeded. On remote failure the
// controller moves to failed and a later Submit may try again.
func (c *Controller) Submit(ctx context.Context, input RegisterInput) (*models.Registrant, error) {
	c.mu.Lock()
	switch c.state {
	case StateSucceeded:
		c.mu.Unlock()
		return nil, ErrAlreadyRegistered
	case StateValidating, StateSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.state = StateValidating

	if verr := c.Validate(input); verr != nil {
		c.state = StateIdle
		c.mu.Unlock()
		return nil, verr
	}

	status := window.Classify(c.clock.Now(), c.opensAt, c.closesAt)
	gate := ComputeGate(status, c.tokens.Get(), StateIdle)
	if gate.Disabled {
		c.state = StateIdle
		c.mu.Unlock()
		return nil, &GateClosedError{Reason: gate.Reason}
	}

	c.state = StateSubmitting
	c.mu.Unlock()

	// No lock held across the remote call; the submitting state keeps the
	// gate disabled meanwhile.
	result, err := c.registrar.Register(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		return nil, err
	}
	c.state = StateSucceeded
	c.result = result
	return result, nil
}
