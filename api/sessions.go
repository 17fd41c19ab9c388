// Package api exposes wallet sessions over HTTP. Every request maps to a
// signal or query on the session's workflow.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"wallet-journeys/flow"
	"wallet-journeys/shared"
	"wallet-journeys/workflows"
)

// ErrSessionNotFound is returned when no running session has the ID.
var ErrSessionNotFound = errors.New("session not found")

// Sessions is what the handlers need from the session backend.
type Sessions interface {
	Open(ctx context.Context, role flow.Role) (shared.SessionState, error)
	Send(ctx context.Context, sessionID string, ev shared.SessionEvent) (shared.SessionState, error)
	State(ctx context.Context, sessionID string) (shared.SessionState, error)
}

// TemporalSessions runs each session as a WalletSessionWorkflow.
type TemporalSessions struct {
	Client client.Client
}

// Open starts a session workflow under a fresh ID and returns its first
// state.
func (s TemporalSessions) Open(ctx context.Context, role flow.Role) (shared.SessionState, error) {
	sessionID := uuid.NewString()
	_, err := s.Client.ExecuteWorkflow(ctx,
		client.StartWorkflowOptions{
			ID:        shared.SessionWorkflowID(sessionID),
			TaskQueue: shared.SessionWorkflowTaskQueue,
		},
		workflows.WalletSessionWorkflow,
		shared.SessionRequest{SessionID: sessionID, Role: role},
	)
	if err != nil {
		return shared.SessionState{}, fmt.Errorf("start session: %w", err)
	}
	return s.State(ctx, sessionID)
}

// Send signals ev and returns the state after it was handled. Signals and
// queries are processed in order, so the query observes the event.
func (s TemporalSessions) Send(ctx context.Context, sessionID string, ev shared.SessionEvent) (shared.SessionState, error) {
	err := s.Client.SignalWorkflow(ctx, shared.SessionWorkflowID(sessionID), "", shared.SignalSessionEvent, ev)
	if err != nil {
		return shared.SessionState{}, notFound(fmt.Errorf("signal session: %w", err))
	}
	return s.State(ctx, sessionID)
}

// State queries the session workflow.
func (s TemporalSessions) State(ctx context.Context, sessionID string) (shared.SessionState, error) {
	resp, err := s.Client.QueryWorkflow(ctx, shared.SessionWorkflowID(sessionID), "", shared.QuerySessionState)
	if err != nil {
		return shared.SessionState{}, notFound(fmt.Errorf("query session: %w", err))
	}
	var st shared.SessionState
	if err := resp.Get(&st); err != nil {
		return shared.SessionState{}, fmt.Errorf("decode session state: %w", err)
	}
	return st, nil
}

func notFound(err error) error {
	var nf *serviceerror.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return err
}
