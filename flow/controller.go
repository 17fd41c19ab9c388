// Package flow drives the screen-to-screen navigation of wallet journeys.
//
// A Controller belongs to one role session. It owns the current step and
// the active journey's payload, validates every transition, and holds the
// per-step gates (OTP countdown, terms scroll gate) for as long as their
// step is current.
package flow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.temporal.io/sdk/log"

	"wallet-journeys/fees"
	"wallet-journeys/gate"
)

// Controller is the step flow of one role session. Its methods are safe for
// concurrent use; none of them blocks except Complete and ScanAndAdvance.
type Controller struct {
	mu      sync.Mutex
	role    Role
	step    FlowStep
	store   Store
	gen     int
	logger  log.Logger
	ticks   gate.TickSource
	backend Backend
	newID   func() string

	timer    *gate.VerificationTimer
	terms    *gate.ScrollGate
	inFlight *Submission
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTickSource sets the clock driving verification countdowns.
func WithTickSource(src gate.TickSource) Option {
	return func(c *Controller) { c.ticks = src }
}

// WithBackend sets the collaborator Complete submits to. The default is
// LocalBackend.
func WithBackend(b Backend) Option {
	return func(c *Controller) { c.backend = b }
}

// WithIDGenerator replaces uuid.NewString for submission IDs and QR codes.
// Hosts that must stay deterministic inject their own.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// NewController returns a controller for role, parked on the selection root.
// A controller for an unknown role refuses every journey.
func NewController(role Role, opts ...Option) *Controller {
	c := &Controller{
		role:    role,
		step:    StepSelectionRoot,
		ticks:   gate.WallClock{},
		backend: LocalBackend{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NewStructuredLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	return c
}

// Role returns the role the controller serves.
func (c *Controller) Role() Role { return c.role }

// Step returns the current step.
func (c *Controller) Step() FlowStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Journey returns the active journey kind, or "" when none is active.
func (c *Controller) Journey() JourneyKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Journey()
}

// Payload returns a copy of the active payload, or nil.
func (c *Controller) Payload() Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Draft()
}

// Start begins a journey, discarding any journey in progress. Journeys
// outside the controller's role are refused with ErrJourneyNotForRole.
func (c *Controller) Start(kind JourneyKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != nil {
		return ErrTransitionInFlight
	}
	j, ok := journeys[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJourney, kind)
	}
	if !j.roles[c.role] {
		return fmt.Errorf("%w: %s cannot start %s", ErrJourneyNotForRole, c.role, kind)
	}
	if _, err := c.store.Begin(kind); err != nil {
		return err
	}
	c.gen++
	c.moveLocked(j.first(c.role))
	c.logger.Info("Journey started", "role", c.role, "journey", kind, "step", c.step)
	return nil
}

// Advance applies in to the current step. On a validation failure neither
// the step nor the payload changes.
func (c *Controller) Advance(in Input) (FlowStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked(in)
}

func (c *Controller) advanceLocked(in Input) (FlowStep, error) {
	if c.inFlight != nil {
		return c.step, ErrTransitionInFlight
	}
	draft := c.store.Draft()
	if draft == nil {
		return c.step, ErrNoActiveJourney
	}
	if in == nil {
		return c.step, unexpected(in, c.step)
	}

	env := stepEnv{
		termsRead: c.terms != nil && c.terms.ReachedEnd(),
		newID:     c.newID,
	}
	next, err := in.apply(c.step, draft, env)
	if err != nil {
		c.logger.Info("Advance refused",
			"journey", draft.Journey(),
			"step", c.step,
			"error", err,
		)
		return c.step, err
	}
	if err := c.store.Commit(draft); err != nil {
		return c.step, err
	}
	c.moveLocked(next)
	return c.step, nil
}

// Back returns to the previous step. From a journey's first step it leaves
// the journey: the payload is discarded and the role's home step becomes
// current.
func (c *Controller) Back() (FlowStep, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != nil {
		return c.step, ErrTransitionInFlight
	}
	kind := c.store.Journey()
	if kind == "" {
		return c.step, nil
	}
	j := journeys[kind]

	if prev, ok := c.previousLocked(j); ok {
		c.moveLocked(prev)
		return c.step, nil
	}

	c.store.Discard()
	c.gen++
	c.moveLocked(c.home(j))
	c.logger.Info("Journey abandoned", "role", c.role, "journey", kind)
	return c.step, nil
}

func (c *Controller) previousLocked(j journey) (FlowStep, bool) {
	if j.kind == JourneyLogin && c.step == StepLoginOTP {
		return j.first(c.role), true
	}
	prev, ok := j.prev[c.step]
	return prev, ok
}

func (c *Controller) home(j journey) FlowStep {
	if j.preAuth {
		return StepSelectionRoot
	}
	return Dashboard(c.role)
}

// Complete finalizes the active journey through the backend. On success the
// payload is discarded and the role's dashboard becomes current; on failure
// a *BackendRejection is returned and nothing changes.
func (c *Controller) Complete(ctx context.Context, kind JourneyKind) (Receipt, error) {
	sub, err := c.BeginComplete(kind)
	if err != nil {
		return Receipt{}, err
	}
	receipt, submitErr := c.backend.Submit(ctx, sub)
	if err := c.EndComplete(sub, receipt, submitErr); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// BeginComplete checks that kind can be completed from the current step and
// returns the submission to send. Until EndComplete is called with it, every
// other transition is refused.
func (c *Controller) BeginComplete(kind JourneyKind) (Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != nil {
		return Submission{}, ErrTransitionInFlight
	}
	active := c.store.active
	if active == nil {
		return Submission{}, ErrNoActiveJourney
	}
	if active.Journey() != kind {
		return Submission{}, fmt.Errorf("%w: %s (active %s)", ErrJourneyMismatch, kind, active.Journey())
	}
	j := journeys[kind]
	if !j.final[c.step] {
		return Submission{}, fmt.Errorf("%w: %s", ErrNotCompletable, c.step)
	}
	if err := active.completeAt(c.step); err != nil {
		return Submission{}, err
	}

	counterpart, amount := active.pricing()
	quote, err := fees.Compute(j.operation, counterpart, amount)
	if err != nil {
		return Submission{}, fmt.Errorf("pricing %s: %w", kind, err)
	}

	sub := Submission{
		ID:        c.newID(),
		Role:      c.role,
		Journey:   kind,
		Operation: j.operation,
		Fields:    active.Fields(),
		Amount:    amount,
		Quote:     quote,
	}
	c.inFlight = &sub
	return sub, nil
}

// EndComplete records the backend outcome for a submission obtained from
// BeginComplete.
func (c *Controller) EndComplete(sub Submission, receipt Receipt, submitErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight == nil || c.inFlight.ID != sub.ID {
		return ErrNoCompletion
	}
	c.inFlight = nil

	if submitErr != nil {
		c.logger.Warn("Submission rejected",
			"journey", sub.Journey,
			"submissionId", sub.ID,
			"error", submitErr,
		)
		return &BackendRejection{Journey: sub.Journey, Err: submitErr}
	}

	c.store.Discard()
	c.gen++
	c.moveLocked(Dashboard(c.role))
	c.logger.Info("Journey completed",
		"journey", sub.Journey,
		"submissionId", sub.ID,
		"transactionId", receipt.TransactionID,
	)
	return nil
}

// Quote prices the active journey for display on its completion steps.
func (c *Controller) Quote() (fees.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.store.active
	if p == nil {
		return fees.Result{}, false
	}
	j := journeys[p.Journey()]
	if j.preAuth || !j.final[c.step] {
		return fees.Result{}, false
	}
	counterpart, amount := p.pricing()
	res, err := fees.Compute(j.operation, counterpart, amount)
	if err != nil {
		return fees.Result{}, false
	}
	return res, true
}

// Verification reports the OTP countdown of the current step, if any.
func (c *Controller) Verification() (gate.VerificationState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return gate.VerificationState{}, false
	}
	return c.timer.State(), true
}

// Resend restarts the OTP countdown. Sending the code itself is up to the
// caller.
func (c *Controller) Resend() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight != nil {
		return ErrTransitionInFlight
	}
	if c.timer == nil || !c.timer.Resend() {
		return ErrResendUnavailable
	}
	c.logger.Info("Verification code resend accepted", "step", c.step)
	return nil
}

// Scroll feeds a terms scroll sample and reports whether the terms have been
// read to the end. Outside the terms step it returns false.
func (c *Controller) Scroll(s gate.ScrollSample) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.terms == nil {
		return false
	}
	return c.terms.Observe(s)
}

// ScanAndAdvance runs the QR scanner from the payment entry step and feeds
// the decoded reference and amount through the same path as manual entry.
// The controller is not locked while the scanner runs.
func (c *Controller) ScanAndAdvance(ctx context.Context, scanner Scanner) (FlowStep, error) {
	c.mu.Lock()
	step, gen := c.step, c.gen
	c.mu.Unlock()
	if step != StepPayEntry {
		return step, fmt.Errorf("%w: scanner opened on %s", ErrUnexpectedInput, step)
	}

	res, err := scanner.Scan(ctx)
	if err != nil {
		return step, fmt.Errorf("scan: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.step != StepPayEntry {
		return c.step, ErrStaleScan
	}
	return c.advanceLocked(PayDetails{Reference: res.Reference, Amount: res.Amount, Mode: EntryQR})
}

// Close ends the session: timers are released and the payload dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseTimerLocked()
	c.terms = nil
	c.inFlight = nil
	c.store.Discard()
	c.gen++
	c.step = StepSelectionRoot
}

// moveLocked makes next current, releasing the gates of the step being left
// and acquiring those of the step being entered.
func (c *Controller) moveLocked(next FlowStep) {
	if c.step == next {
		return
	}
	if c.step.IsVerification() {
		c.releaseTimerLocked()
	}
	if c.step == StepOnboardingTerms {
		c.terms = nil
	}

	c.logger.Debug("Step changed", "from", c.step, "to", next)
	c.step = next

	if next.IsVerification() {
		c.startTimerLocked()
	}
	if next == StepOnboardingTerms {
		c.terms = gate.NewScrollGate()
	}
}

func (c *Controller) startTimerLocked() {
	if c.timer != nil && c.timer.Active() {
		c.logger.Error("Restarting verification step", "step", c.step, "error", ErrTimerLeak)
		c.timer.Cancel()
	}
	c.timer = gate.NewVerificationTimer(c.ticks)
}

func (c *Controller) releaseTimerLocked() {
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
}
