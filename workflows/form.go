package workflows

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"wallet-journeys/flow"
	"wallet-journeys/shared"
)

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &flow.ValidationError{Field: "amount", Reason: "not a number"}
	}
	return d, nil
}

// formInput turns the submitted form into the input the current step
// expects.
func formInput(step flow.FlowStep, f shared.Form) (flow.Input, error) {
	switch step {
	case flow.StepSendEntry:
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, err
		}
		return flow.SendDetails{Recipient: f.Recipient, Amount: amount}, nil

	case flow.StepPayEntry:
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, err
		}
		return flow.PayDetails{Reference: f.Reference, Amount: amount, Mode: flow.EntryMode(f.Mode)}, nil

	case flow.StepTopUpEntry:
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, err
		}
		return flow.TopUpDetails{Method: flow.Method(f.Method), Amount: amount}, nil

	case flow.StepWithdrawEntry:
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, err
		}
		return flow.WithdrawDetails{Method: flow.Method(f.Method), Amount: amount}, nil

	case flow.StepWithdrawAgent:
		return flow.AgentWithdrawal{AgentCode: f.AgentCode}, nil

	case flow.StepWithdrawBank:
		return flow.BankWithdrawal{AccountNumber: f.AccountNumber}, nil

	case flow.StepQrCollect:
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, err
		}
		return flow.CollectAmount{Amount: amount}, nil

	case flow.StepCashoutEntry:
		amount, err := parseAmount(f.Amount)
		if err != nil {
			return nil, err
		}
		return flow.CashoutDetails{AccountNumber: f.AccountNumber, Amount: amount}, nil

	case flow.StepOnboarding:
		return flow.PhoneDetails{Phone: f.Phone}, nil

	case flow.StepLogin, flow.StepMerchantLogin:
		return flow.LoginDetails{Phone: f.Phone, PIN: f.PIN}, nil

	case flow.StepOnboardingOTP, flow.StepLoginOTP:
		return flow.OTPCode{Code: f.Code}, nil

	case flow.StepOnboardingTerms:
		if !f.Accept {
			return nil, &flow.ValidationError{Field: "terms", Reason: "must be accepted"}
		}
		return flow.TermsAcceptance{}, nil

	case flow.StepOnboardingDocuments:
		return flow.DocumentDetails{DocumentType: f.DocumentType, DocumentID: f.DocumentID}, nil
	}
	return nil, fmt.Errorf("%w: nothing to enter on %s", flow.ErrUnexpectedInput, step)
}
