package shared

import "time"

// Task queue names.
const (
	SessionWorkflowTaskQueue = "wallet-session-tq"
	ActivityTaskQueue        = "wallet-activity-tq"
)

// Signal and query names.
const (
	SignalSessionEvent = "signal-session-event"
	QuerySessionState  = "query-session-state"
)

// Session timing.
const (
	// SessionIdleTimeout ends a session that receives no events.
	SessionIdleTimeout = 15 * time.Minute
)

// Error types for non-retryable failures.
const (
	ErrTypeIdentityVerificationFailed = "IdentityVerificationFailed"
	ErrTypeTransactionRejected        = "TransactionRejected"
	ErrTypeInvalidSession             = "InvalidSession"
)

// SessionWorkflowID returns the workflow ID of a wallet session. The session
// ID doubles as an idempotency key: one running workflow per session.
func SessionWorkflowID(sessionID string) string {
	return "wallet-session-" + sessionID
}
