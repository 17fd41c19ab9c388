package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"wallet-journeys/flow"
	"wallet-journeys/shared"
)

// sessionWorkflow holds one role session: the journey controller plus the
// bookkeeping the query handler reports.
type sessionWorkflow struct {
	// Session state
	ctrl      *flow.Controller
	lastError *shared.EventError
	completed int
	codesSent int
	endReason string

	// Workflow context
	req     shared.SessionRequest
	logger  log.Logger
	actCtx  workflow.Context
	eventCh workflow.ReceiveChannel
}

// newSessionWorkflow builds the controller on workflow-safe clocks and IDs,
// registers the query handler, and sets up the signal channel and activity
// options.
func newSessionWorkflow(ctx workflow.Context, req shared.SessionRequest) (*sessionWorkflow, error) {
	if !req.Role.Valid() {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("unknown role %q", req.Role),
			shared.ErrTypeInvalidSession,
			nil,
		)
	}
	w := &sessionWorkflow{
		req:     req,
		logger:  workflow.GetLogger(ctx),
		eventCh: workflow.GetSignalChannel(ctx, shared.SignalSessionEvent),
	}
	w.ctrl = flow.NewController(req.Role,
		flow.WithLogger(w.logger),
		flow.WithTickSource(workflowTicks{ctx: ctx}),
		flow.WithIDGenerator(sideEffectIDs(ctx)),
	)

	// Register query handler so the presentation layer can render the
	// current step.
	err := workflow.SetQueryHandler(ctx, shared.QuerySessionState, func() (shared.SessionState, error) {
		return w.state(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set query handler: %w", err)
	}

	actOpts := workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{shared.ErrTypeTransactionRejected},
		},
	}
	w.actCtx = workflow.WithActivityOptions(ctx, actOpts)

	return w, nil
}

func (w *sessionWorkflow) state() shared.SessionState {
	st := shared.SessionState{
		SessionID: w.req.SessionID,
		Role:      w.req.Role,
		Journey:   w.ctrl.Journey(),
		Step:      w.ctrl.Step(),
		LastError: w.lastError,
		Completed: w.completed,
	}
	if p := w.ctrl.Payload(); p != nil {
		st.Fields = p.Fields()
	}
	if q, ok := w.ctrl.Quote(); ok {
		st.Quote = &q
	}
	if v, ok := w.ctrl.Verification(); ok {
		st.Verification = &v
	}
	return st
}

// waitForEvent blocks until the next session event or the idle timeout.
// An event cancels the idle timer, as a document submission cancels a
// pending reminder.
func (w *sessionWorkflow) waitForEvent(ctx workflow.Context) {
	timerCtx, timerCancel := workflow.WithCancel(ctx)
	idleTimer := workflow.NewTimer(timerCtx, shared.SessionIdleTimeout)

	var ev shared.SessionEvent
	received := false

	selector := workflow.NewSelector(ctx)
	selector.AddFuture(idleTimer, func(f workflow.Future) {
		_ = f.Get(ctx, nil)
	})
	selector.AddReceive(w.eventCh, func(ch workflow.ReceiveChannel, more bool) {
		ch.Receive(ctx, &ev)
		received = true
		timerCancel()
	})
	selector.Select(ctx)

	if !received {
		w.logger.Info("Session idle, ending", "sessionId", w.req.SessionID)
		w.endReason = "idle"
		return
	}
	w.handle(ctx, ev)
}

func (w *sessionWorkflow) handle(ctx workflow.Context, ev shared.SessionEvent) {
	w.logger.Debug("Session event received", "sessionId", w.req.SessionID, "type", ev.Type)

	var err error
	switch ev.Type {
	case shared.EventStart:
		err = w.ctrl.Start(ev.Journey)
	case shared.EventAdvance:
		err = w.advance(ctx, ev.Form)
	case shared.EventBack:
		err = w.back(ctx)
	case shared.EventComplete:
		err = w.complete(ctx, ev.Journey)
	case shared.EventResend:
		if err = w.ctrl.Resend(); err == nil {
			w.sendCode(ctx)
		}
	case shared.EventAttach:
		_, err = w.ctrl.Advance(flow.Attachment{Kind: ev.Attachment})
	case shared.EventScroll:
		// Scroll samples are frequent and never fail; they leave the last
		// error in place.
		w.ctrl.Scroll(ev.Scroll)
		return
	case shared.EventEnd:
		w.endReason = "ended"
	default:
		err = fmt.Errorf("unknown event type %q", ev.Type)
	}
	w.record(ev.Type, err)
}

func (w *sessionWorkflow) record(t shared.EventType, err error) {
	if err == nil {
		w.lastError = nil
		return
	}
	e := &shared.EventError{Event: t, Message: err.Error()}
	var verr *flow.ValidationError
	if errors.As(err, &verr) {
		e.Field, e.Reason = verr.Field, verr.Reason
	}
	w.lastError = e
	w.logger.Info("Session event refused",
		"sessionId", w.req.SessionID,
		"type", t,
		"step", w.ctrl.Step(),
		"error", err,
	)
}

func (w *sessionWorkflow) advance(ctx workflow.Context, form shared.Form) error {
	before := w.ctrl.Step()
	in, err := formInput(before, form)
	if err != nil {
		return err
	}
	next, err := w.ctrl.Advance(in)
	if err != nil {
		return err
	}
	if next.IsVerification() && next != before {
		w.sendCode(ctx)
	}
	return nil
}

// back returns to the previous step. Landing on a verification step starts
// a new countdown, so a new code goes with it.
func (w *sessionWorkflow) back(ctx workflow.Context) error {
	before := w.ctrl.Step()
	next, err := w.ctrl.Back()
	if err != nil {
		return err
	}
	if next.IsVerification() && next != before {
		w.sendCode(ctx)
	}
	return nil
}

// sendCode texts a verification code for the current step. A failed send
// does not block the journey: the user can resend once the countdown ends.
func (w *sessionWorkflow) sendCode(ctx workflow.Context) {
	p := w.ctrl.Payload()
	if p == nil {
		return
	}
	w.codesSent++
	req := shared.CodeRequest{
		SessionID: w.req.SessionID,
		Phone:     p.Fields()["phone"],
		Attempt:   w.codesSent,
	}
	var messageID string
	err := workflow.ExecuteActivity(w.actCtx, a.SendVerificationCode, req).Get(ctx, &messageID)
	if err != nil {
		w.logger.Error("Failed to send verification code", "error", err)
		return
	}
	w.logger.Info("Verification code sent", "messageId", messageID)
}

// complete submits the active journey. Onboarding goes through KYC, login
// finishes on the verified code alone, and every other journey goes to the
// transaction backend.
func (w *sessionWorkflow) complete(ctx workflow.Context, kind flow.JourneyKind) error {
	sub, err := w.ctrl.BeginComplete(kind)
	if err != nil {
		return err
	}

	var receipt flow.Receipt
	var submitErr error
	switch sub.Journey {
	case flow.JourneyOnboarding:
		receipt, submitErr = w.runKYC(ctx, sub)
	case flow.JourneyLogin:
		receipt = flow.Receipt{TransactionID: sub.ID, Status: "SIGNED_IN"}
	default:
		submitErr = workflow.ExecuteActivity(w.actCtx, a.ProcessTransaction, sub).Get(ctx, &receipt)
	}

	if err := w.ctrl.EndComplete(sub, receipt, submitErr); err != nil {
		return err
	}
	w.completed++
	return nil
}

// runKYC launches the identity verification child workflow for the
// onboarding documents.
func (w *sessionWorkflow) runKYC(ctx workflow.Context, sub flow.Submission) (flow.Receipt, error) {
	doc := shared.DocumentUpload{
		CustomerID:   sub.Fields["phone"],
		DocumentType: sub.Fields["documentType"],
		DocumentID:   sub.Fields["documentId"],
	}
	w.logger.Info("Onboarding documents submitted, starting KYC verification",
		"sessionId", w.req.SessionID,
		"customerId", doc.CustomerID,
	)

	childOpts := workflow.ChildWorkflowOptions{
		WorkflowID: fmt.Sprintf("kyc-verify-%s", sub.ID),
		TaskQueue:  shared.SessionWorkflowTaskQueue,
	}
	childCtx := workflow.WithChildOptions(ctx, childOpts)

	var result shared.VerificationResult
	err := workflow.ExecuteChildWorkflow(childCtx, IdentityVerificationWorkflow, doc).Get(ctx, &result)
	if err != nil {
		return flow.Receipt{}, fmt.Errorf("KYC child workflow failed: %w", err)
	}
	if !result.Passed {
		return flow.Receipt{}, fmt.Errorf("KYC rejected: %s", result.Details)
	}
	return flow.Receipt{TransactionID: result.VerificationID, Status: "VERIFIED"}, nil
}

// WalletSessionWorkflow hosts one role session of the wallet front-end.
//
// The presentation layer drives it with SignalSessionEvent and renders the
// result of QuerySessionState after every event. Refused events leave the
// session where it was and show up as LastError.
//
// Temporal features used:
//   - Signals (SignalSessionEvent) for every user event
//   - Queries (QuerySessionState) for the current step and form state
//   - Durable timers for the OTP countdown and the idle timeout
//   - Activities for the transaction backend and SMS codes
//   - Child workflows for onboarding KYC
func WalletSessionWorkflow(ctx workflow.Context, req shared.SessionRequest) (shared.SessionSummary, error) {
	w, err := newSessionWorkflow(ctx, req)
	if err != nil {
		return shared.SessionSummary{}, err
	}
	defer w.ctrl.Close()

	w.logger.Info("Wallet session started",
		"sessionId", req.SessionID,
		"role", req.Role,
	)

	for w.endReason == "" {
		w.waitForEvent(ctx)
	}

	w.logger.Info("Wallet session ended",
		"sessionId", req.SessionID,
		"reason", w.endReason,
		"completed", w.completed,
	)
	return shared.SessionSummary{
		SessionID: req.SessionID,
		Completed: w.completed,
		EndReason: w.endReason,
	}, nil
}
