package flow

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Input is an advance event carrying the data captured on the current step.
// apply validates against a draft payload and returns the next step; it
// must leave the draft untouched when it fails.
type Input interface {
	apply(step FlowStep, p Payload, env stepEnv) (FlowStep, error)
}

type stepEnv struct {
	termsRead bool
	newID     func() string
}

// AttachmentKind names the file a step waits for.
type AttachmentKind string

const (
	AttachTransferProof AttachmentKind = "transferProof"
	AttachDocument      AttachmentKind = "document"
)

// Inputs, one per kind of entry step.
type (
	SendDetails struct {
		Recipient string
		Amount    decimal.Decimal
	}
	PayDetails struct {
		Reference string
		Amount    decimal.Decimal
		Mode      EntryMode
	}
	TopUpDetails struct {
		Method Method
		Amount decimal.Decimal
	}
	WithdrawDetails struct {
		Method Method
		Amount decimal.Decimal
	}
	AgentWithdrawal struct {
		AgentCode string
	}
	BankWithdrawal struct {
		AccountNumber string
	}
	CollectAmount struct {
		Amount decimal.Decimal
	}
	CashoutDetails struct {
		AccountNumber string
		Amount        decimal.Decimal
	}
	PhoneDetails struct {
		Phone string
	}
	LoginDetails struct {
		Phone string
		PIN   string
	}
	OTPCode struct {
		Code string
	}
	TermsAcceptance struct{}
	DocumentDetails struct {
		DocumentType string
		DocumentID   string
	}
	// Attachment is the file-upload collaborator's "file attached" signal.
	Attachment struct {
		Kind AttachmentKind
	}
)

func unexpected(in Input, step FlowStep) error {
	return fmt.Errorf("%w: %T on %s", ErrUnexpectedInput, in, step)
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}
	return nil
}

func requireAmount(v decimal.Decimal) error {
	if !v.IsPositive() {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if !v.Equal(v.Round(2)) {
		return &ValidationError{Field: "amount", Reason: "at most two decimal places"}
	}
	return nil
}

func requireMethod(m Method) error {
	if m != MethodAgent && m != MethodBank {
		return &ValidationError{Field: "method", Reason: "choose agent or bank"}
	}
	return nil
}

func requireDigits(field, v string, min, max int) error {
	if err := requireText(field, v); err != nil {
		return err
	}
	if len(v) < min || len(v) > max {
		if min == max {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("must be %d digits", min)}
		}
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be %d to %d digits", min, max)}
	}
	for _, ch := range v {
		if !unicode.IsDigit(ch) {
			return &ValidationError{Field: field, Reason: "digits only"}
		}
	}
	return nil
}

func normalizePhone(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "+")
	return strings.ReplaceAll(v, " ", "")
}

func methodStep(m Method, agent, bank FlowStep) FlowStep {
	if m == MethodBank {
		return bank
	}
	return agent
}

func (d SendDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	sp, ok := p.(*SendPayload)
	if !ok || step != StepSendEntry {
		return step, unexpected(d, step)
	}
	recipient := strings.TrimSpace(d.Recipient)
	if err := requireText("recipient", recipient); err != nil {
		return step, err
	}
	if err := requireAmount(d.Amount); err != nil {
		return step, err
	}
	sp.Recipient, sp.Amount = recipient, d.Amount
	return StepSendConfirm, nil
}

func (d PayDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	pp, ok := p.(*PayPayload)
	if !ok || step != StepPayEntry {
		return step, unexpected(d, step)
	}
	reference := strings.TrimSpace(d.Reference)
	if err := requireText("reference", reference); err != nil {
		return step, err
	}
	if err := requireAmount(d.Amount); err != nil {
		return step, err
	}
	mode := d.Mode
	switch mode {
	case "":
		mode = EntryManual
	case EntryManual, EntryQR:
	default:
		return step, &ValidationError{Field: "mode", Reason: "choose manual or qr"}
	}
	pp.Reference, pp.Amount, pp.Mode = reference, d.Amount, mode
	return StepPayConfirm, nil
}

func (d TopUpDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	tp, ok := p.(*TopUpPayload)
	if !ok || step != StepTopUpEntry {
		return step, unexpected(d, step)
	}
	if err := requireMethod(d.Method); err != nil {
		return step, err
	}
	if err := requireAmount(d.Amount); err != nil {
		return step, err
	}
	tp.Method, tp.Amount = d.Method, d.Amount
	return methodStep(d.Method, StepTopUpAgent, StepTopUpBank), nil
}

func (d WithdrawDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	wp, ok := p.(*WithdrawPayload)
	if !ok || step != StepWithdrawEntry {
		return step, unexpected(d, step)
	}
	if err := requireMethod(d.Method); err != nil {
		return step, err
	}
	if err := requireAmount(d.Amount); err != nil {
		return step, err
	}
	if wp.Method != d.Method {
		wp.AgentCode, wp.AccountNumber = "", ""
	}
	wp.Method, wp.Amount = d.Method, d.Amount
	return methodStep(d.Method, StepWithdrawAgent, StepWithdrawBank), nil
}

func (d AgentWithdrawal) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	wp, ok := p.(*WithdrawPayload)
	if !ok || step != StepWithdrawAgent {
		return step, unexpected(d, step)
	}
	code := strings.TrimSpace(d.AgentCode)
	if err := requireText("agentCode", code); err != nil {
		return step, err
	}
	wp.AgentCode = code
	return step, nil
}

func (d BankWithdrawal) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	wp, ok := p.(*WithdrawPayload)
	if !ok || step != StepWithdrawBank {
		return step, unexpected(d, step)
	}
	account := strings.TrimSpace(d.AccountNumber)
	if err := requireText("accountNumber", account); err != nil {
		return step, err
	}
	wp.AccountNumber = account
	return step, nil
}

func (d CollectAmount) apply(step FlowStep, p Payload, env stepEnv) (FlowStep, error) {
	cp, ok := p.(*CollectPayload)
	if !ok || step != StepQrCollect {
		return step, unexpected(d, step)
	}
	if err := requireAmount(d.Amount); err != nil {
		return step, err
	}
	cp.Amount = d.Amount
	cp.Code = "QR-" + env.newID()
	return StepQrCode, nil
}

func (d CashoutDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	cp, ok := p.(*CashoutPayload)
	if !ok || step != StepCashoutEntry {
		return step, unexpected(d, step)
	}
	account := strings.TrimSpace(d.AccountNumber)
	if err := requireText("accountNumber", account); err != nil {
		return step, err
	}
	if err := requireAmount(d.Amount); err != nil {
		return step, err
	}
	cp.AccountNumber, cp.Amount = account, d.Amount
	return StepCashoutConfirm, nil
}

func (d PhoneDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	op, ok := p.(*OnboardingPayload)
	if !ok || step != StepOnboarding {
		return step, unexpected(d, step)
	}
	phone := normalizePhone(d.Phone)
	if err := requireDigits("phone", phone, 6, 15); err != nil {
		return step, err
	}
	if phone != op.Phone {
		op.CodeVerified = false
	}
	op.Phone = phone
	return StepOnboardingOTP, nil
}

func (d LoginDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	lp, ok := p.(*LoginPayload)
	if !ok || (step != StepLogin && step != StepMerchantLogin) {
		return step, unexpected(d, step)
	}
	phone := normalizePhone(d.Phone)
	if err := requireDigits("phone", phone, 6, 15); err != nil {
		return step, err
	}
	if err := requireDigits("pin", d.PIN, 4, 4); err != nil {
		return step, err
	}
	lp.Phone, lp.PINSet, lp.CodeVerified = phone, true, false
	return StepLoginOTP, nil
}

func (d OTPCode) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	code := strings.TrimSpace(d.Code)
	switch pl := p.(type) {
	case *OnboardingPayload:
		if step != StepOnboardingOTP {
			break
		}
		if err := requireDigits("code", code, 6, 6); err != nil {
			return step, err
		}
		pl.CodeVerified = true
		return StepOnboardingTerms, nil
	case *LoginPayload:
		if step != StepLoginOTP {
			break
		}
		if err := requireDigits("code", code, 6, 6); err != nil {
			return step, err
		}
		pl.CodeVerified = true
		return step, nil
	}
	return step, unexpected(d, step)
}

func (d TermsAcceptance) apply(step FlowStep, p Payload, env stepEnv) (FlowStep, error) {
	op, ok := p.(*OnboardingPayload)
	if !ok || step != StepOnboardingTerms {
		return step, unexpected(d, step)
	}
	if !env.termsRead {
		return step, &ValidationError{Field: "terms", Reason: "must be read to the end"}
	}
	op.TermsAccepted = true
	return StepOnboardingDocuments, nil
}

func (d DocumentDetails) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	op, ok := p.(*OnboardingPayload)
	if !ok || step != StepOnboardingDocuments {
		return step, unexpected(d, step)
	}
	docType := strings.TrimSpace(d.DocumentType)
	docID := strings.TrimSpace(d.DocumentID)
	if err := requireText("documentType", docType); err != nil {
		return step, err
	}
	if err := requireText("documentId", docID); err != nil {
		return step, err
	}
	op.DocumentType, op.DocumentID = docType, docID
	return step, nil
}

func (d Attachment) apply(step FlowStep, p Payload, _ stepEnv) (FlowStep, error) {
	switch pl := p.(type) {
	case *TopUpPayload:
		if step == StepTopUpBank && d.Kind == AttachTransferProof {
			pl.ProofAttached = true
			return step, nil
		}
	case *OnboardingPayload:
		if step == StepOnboardingDocuments && d.Kind == AttachDocument {
			pl.DocumentAttached = true
			return step, nil
		}
	}
	return step, unexpected(d, step)
}
