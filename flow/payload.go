package flow

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Payload is the data captured so far by the active journey. Each journey
// kind has its own variant with a fixed field set.
type Payload interface {
	Journey() JourneyKind
	// Fields renders the captured values as form state. Unset values are
	// omitted.
	Fields() map[string]string

	pricing() (counterpart string, amount decimal.Decimal)
	completeAt(step FlowStep) error
	clone() Payload
}

// EntryMode records how a payment reference was captured.
type EntryMode string

const (
	EntryManual EntryMode = "manual"
	EntryQR     EntryMode = "qr"
)

// Method is the cash-in/cash-out channel for top-ups and withdrawals.
type Method string

const (
	MethodAgent Method = "agent"
	MethodBank  Method = "bank"
)

// SendPayload is a peer-to-peer transfer.
type SendPayload struct {
	Recipient string
	Amount    decimal.Decimal
}

// PayPayload is a merchant payment by reference.
type PayPayload struct {
	Reference string
	Amount    decimal.Decimal
	Mode      EntryMode
}

// TopUpPayload is a wallet top-up through an agent or a bank transfer.
type TopUpPayload struct {
	Method        Method
	Amount        decimal.Decimal
	ProofAttached bool
}

// WithdrawPayload is a cash withdrawal. Only the field of the chosen
// method is kept.
type WithdrawPayload struct {
	Method        Method
	Amount        decimal.Decimal
	AgentCode     string
	AccountNumber string
}

// CollectPayload is a merchant QR collection. Code is generated when the
// amount is entered.
type CollectPayload struct {
	Amount decimal.Decimal
	Code   string
}

// CashoutPayload is a back-office cashout to a bank account.
type CashoutPayload struct {
	AccountNumber string
	Amount        decimal.Decimal
}

// OnboardingPayload is the customer sign-up.
type OnboardingPayload struct {
	Phone            string
	CodeVerified     bool
	TermsAccepted    bool
	DocumentType     string
	DocumentID       string
	DocumentAttached bool
}

// LoginPayload never holds the PIN itself, only that one was entered.
type LoginPayload struct {
	Phone        string
	PINSet       bool
	CodeVerified bool
}

func newPayload(kind JourneyKind) (Payload, error) {
	switch kind {
	case JourneySend:
		return &SendPayload{}, nil
	case JourneyPay:
		return &PayPayload{Mode: EntryManual}, nil
	case JourneyTopUp:
		return &TopUpPayload{}, nil
	case JourneyWithdraw:
		return &WithdrawPayload{}, nil
	case JourneyCollect:
		return &CollectPayload{}, nil
	case JourneyCashout:
		return &CashoutPayload{}, nil
	case JourneyOnboarding:
		return &OnboardingPayload{}, nil
	case JourneyLogin:
		return &LoginPayload{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownJourney, kind)
}

type fieldSet map[string]string

func (f fieldSet) text(key, v string) fieldSet {
	if v != "" {
		f[key] = v
	}
	return f
}

func (f fieldSet) amount(v decimal.Decimal) fieldSet {
	if !v.IsZero() {
		f["amount"] = v.String()
	}
	return f
}

func (f fieldSet) flag(key string, v bool) fieldSet {
	if v {
		f[key] = "true"
	}
	return f
}

func (p *SendPayload) Journey() JourneyKind { return JourneySend }
func (p *SendPayload) Fields() map[string]string {
	return fieldSet{}.text("recipient", p.Recipient).amount(p.Amount)
}
func (p *SendPayload) pricing() (string, decimal.Decimal) { return p.Recipient, p.Amount }
func (p *SendPayload) completeAt(FlowStep) error {
	if err := requireText("recipient", p.Recipient); err != nil {
		return err
	}
	return requireAmount(p.Amount)
}
func (p *SendPayload) clone() Payload {
	c := *p
	return &c
}

func (p *PayPayload) Journey() JourneyKind { return JourneyPay }
func (p *PayPayload) Fields() map[string]string {
	return fieldSet{}.text("reference", p.Reference).amount(p.Amount).text("mode", string(p.Mode))
}
func (p *PayPayload) pricing() (string, decimal.Decimal) { return p.Reference, p.Amount }
func (p *PayPayload) completeAt(FlowStep) error {
	if err := requireText("reference", p.Reference); err != nil {
		return err
	}
	return requireAmount(p.Amount)
}
func (p *PayPayload) clone() Payload {
	c := *p
	return &c
}

func (p *TopUpPayload) Journey() JourneyKind { return JourneyTopUp }
func (p *TopUpPayload) Fields() map[string]string {
	return fieldSet{}.text("method", string(p.Method)).amount(p.Amount).flag("proofAttached", p.ProofAttached)
}
func (p *TopUpPayload) pricing() (string, decimal.Decimal) { return "", p.Amount }
func (p *TopUpPayload) completeAt(step FlowStep) error {
	if err := requireAmount(p.Amount); err != nil {
		return err
	}
	if step == StepTopUpBank && !p.ProofAttached {
		return &ValidationError{Field: "proof", Reason: "transfer receipt must be attached"}
	}
	return nil
}
func (p *TopUpPayload) clone() Payload {
	c := *p
	return &c
}

func (p *WithdrawPayload) Journey() JourneyKind { return JourneyWithdraw }
func (p *WithdrawPayload) Fields() map[string]string {
	return fieldSet{}.
		text("method", string(p.Method)).
		amount(p.Amount).
		text("agentCode", p.AgentCode).
		text("accountNumber", p.AccountNumber)
}
func (p *WithdrawPayload) pricing() (string, decimal.Decimal) {
	if p.Method == MethodBank {
		return p.AccountNumber, p.Amount
	}
	return p.AgentCode, p.Amount
}
func (p *WithdrawPayload) completeAt(step FlowStep) error {
	if err := requireAmount(p.Amount); err != nil {
		return err
	}
	if step == StepWithdrawBank {
		return requireText("accountNumber", p.AccountNumber)
	}
	return requireText("agentCode", p.AgentCode)
}
func (p *WithdrawPayload) clone() Payload {
	c := *p
	return &c
}

func (p *CollectPayload) Journey() JourneyKind { return JourneyCollect }
func (p *CollectPayload) Fields() map[string]string {
	return fieldSet{}.amount(p.Amount).text("code", p.Code)
}
func (p *CollectPayload) pricing() (string, decimal.Decimal) { return p.Code, p.Amount }
func (p *CollectPayload) completeAt(FlowStep) error {
	if err := requireAmount(p.Amount); err != nil {
		return err
	}
	return requireText("code", p.Code)
}
func (p *CollectPayload) clone() Payload {
	c := *p
	return &c
}

func (p *CashoutPayload) Journey() JourneyKind { return JourneyCashout }
func (p *CashoutPayload) Fields() map[string]string {
	return fieldSet{}.text("accountNumber", p.AccountNumber).amount(p.Amount)
}
func (p *CashoutPayload) pricing() (string, decimal.Decimal) { return p.AccountNumber, p.Amount }
func (p *CashoutPayload) completeAt(FlowStep) error {
	if err := requireText("accountNumber", p.AccountNumber); err != nil {
		return err
	}
	return requireAmount(p.Amount)
}
func (p *CashoutPayload) clone() Payload {
	c := *p
	return &c
}

func (p *OnboardingPayload) Journey() JourneyKind { return JourneyOnboarding }
func (p *OnboardingPayload) Fields() map[string]string {
	return fieldSet{}.
		text("phone", p.Phone).
		flag("codeVerified", p.CodeVerified).
		flag("termsAccepted", p.TermsAccepted).
		text("documentType", p.DocumentType).
		text("documentId", p.DocumentID).
		flag("documentAttached", p.DocumentAttached)
}
func (p *OnboardingPayload) pricing() (string, decimal.Decimal) { return p.Phone, decimal.Zero }
func (p *OnboardingPayload) completeAt(FlowStep) error {
	switch {
	case !p.CodeVerified:
		return &ValidationError{Field: "code", Reason: "phone number not verified"}
	case !p.TermsAccepted:
		return &ValidationError{Field: "terms", Reason: "terms not accepted"}
	}
	if err := requireText("documentType", p.DocumentType); err != nil {
		return err
	}
	if err := requireText("documentId", p.DocumentID); err != nil {
		return err
	}
	if !p.DocumentAttached {
		return &ValidationError{Field: "document", Reason: "document file must be attached"}
	}
	return nil
}
func (p *OnboardingPayload) clone() Payload {
	c := *p
	return &c
}

func (p *LoginPayload) Journey() JourneyKind { return JourneyLogin }
func (p *LoginPayload) Fields() map[string]string {
	return fieldSet{}.text("phone", p.Phone).flag("codeVerified", p.CodeVerified)
}
func (p *LoginPayload) pricing() (string, decimal.Decimal) { return p.Phone, decimal.Zero }
func (p *LoginPayload) completeAt(FlowStep) error {
	if !p.CodeVerified {
		return &ValidationError{Field: "code", Reason: "verification code not entered"}
	}
	return nil
}
func (p *LoginPayload) clone() Payload {
	c := *p
	return &c
}

// Store holds the payload of the active journey. It is owned by exactly one
// Controller and is not safe for concurrent use on its own.
type Store struct {
	active Payload
}

// Begin replaces whatever was held with an empty payload for kind.
func (s *Store) Begin(kind JourneyKind) (Payload, error) {
	p, err := newPayload(kind)
	if err != nil {
		return nil, err
	}
	s.active = p
	return p, nil
}

// Draft returns a private copy of the active payload for a tentative
// transition, or nil.
func (s *Store) Draft() Payload {
	if s.active == nil {
		return nil
	}
	return s.active.clone()
}

// Commit makes a draft the active payload. Drafts of another journey are
// rejected so payloads can never leak between journeys.
func (s *Store) Commit(p Payload) error {
	if s.active == nil || p.Journey() != s.active.Journey() {
		return ErrJourneyMismatch
	}
	s.active = p
	return nil
}

// Discard drops the active payload.
func (s *Store) Discard() { s.active = nil }

// Journey returns the kind of the active payload, or "".
func (s *Store) Journey() JourneyKind {
	if s.active == nil {
		return ""
	}
	return s.active.Journey()
}
