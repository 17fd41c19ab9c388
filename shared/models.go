package shared

import (
	"wallet-journeys/fees"
	"wallet-journeys/flow"
	"wallet-journeys/gate"
)

// SessionRequest is the input to the WalletSessionWorkflow.
type SessionRequest struct {
	SessionID string    `json:"sessionId"`
	Role      flow.Role `json:"role"`
}

// EventType names what a session event asks the journey controller to do.
type EventType string

const (
	EventStart    EventType = "start"
	EventAdvance  EventType = "advance"
	EventBack     EventType = "back"
	EventComplete EventType = "complete"
	EventResend   EventType = "resend"
	EventScroll   EventType = "scroll"
	EventAttach   EventType = "attach"
	EventEnd      EventType = "end"
)

// Form carries the values captured on a step. Which fields matter depends on
// the step the session is on.
type Form struct {
	Recipient     string `json:"recipient,omitempty"`
	Reference     string `json:"reference,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	AgentCode     string `json:"agentCode,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Method        string `json:"method,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PIN           string `json:"pin,omitempty"`
	Code          string `json:"code,omitempty"`
	DocumentType  string `json:"documentType,omitempty"`
	DocumentID    string `json:"documentId,omitempty"`
	Accept        bool   `json:"accept,omitempty"`
}

// SessionEvent is the payload of SignalSessionEvent.
type SessionEvent struct {
	Type       EventType           `json:"type"`
	Journey    flow.JourneyKind    `json:"journey,omitempty"`
	Form       Form                `json:"form,omitempty"`
	Scroll     gate.ScrollSample   `json:"scroll,omitempty"`
	Attachment flow.AttachmentKind `json:"attachment,omitempty"`
}

// EventError is the last refused event, kept on the session state so the
// presentation layer can show why it stayed in place.
type EventError struct {
	Event   EventType `json:"event"`
	Field   string    `json:"field,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
}

// SessionState is returned by the query handler.
type SessionState struct {
	SessionID    string                  `json:"sessionId"`
	Role         flow.Role               `json:"role"`
	Journey      flow.JourneyKind        `json:"journey,omitempty"`
	Step         flow.FlowStep           `json:"step"`
	Fields       map[string]string       `json:"fields,omitempty"`
	Quote        *fees.Result            `json:"quote,omitempty"`
	Verification *gate.VerificationState `json:"verification,omitempty"`
	LastError    *EventError             `json:"lastError,omitempty"`
	Completed    int                     `json:"completed"`
}

// SessionSummary is the workflow result.
type SessionSummary struct {
	SessionID string `json:"sessionId"`
	Completed int    `json:"completed"`
	EndReason string `json:"endReason"`
}

// CodeRequest is the input to the SendVerificationCode activity.
type CodeRequest struct {
	SessionID string `json:"sessionId"`
	Phone     string `json:"phone"`
	Attempt   int    `json:"attempt"`
}

// DocumentUpload represents an identity document submitted during onboarding.
type DocumentUpload struct {
	CustomerID   string `json:"customerId"`
	DocumentType string `json:"documentType"` // "passport", "nationalId", "driversLicense"
	DocumentID   string `json:"documentId"`
}

// VerificationResult is the output from verification activities.
type VerificationResult struct {
	Passed         bool   `json:"passed"`
	VerificationID string `json:"verificationId"`
	Details        string `json:"details"`
}
