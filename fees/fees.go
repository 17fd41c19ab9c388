// Package fees holds the fee rules applied to money-movement journeys.
package fees

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Operation identifies the kind of money movement being priced.
type Operation string

const (
	OperationSend     Operation = "send"
	OperationPay      Operation = "pay"
	OperationTopUp    Operation = "topup"
	OperationRecharge Operation = "recharge"
	OperationWithdraw Operation = "withdraw"
	OperationCollect  Operation = "collect"
	OperationCashout  Operation = "cashout"
	OperationNone     Operation = "none"
)

var (
	// SendFee is the flat fee charged on a send to a non-merchant recipient.
	SendFee = decimal.RequireFromString("0.20")
	// PercentageRate applies to top-ups (informational) and cashouts.
	PercentageRate = decimal.RequireFromString("0.02")

	// ErrUnknownOperation is returned for operations with no fee rule.
	ErrUnknownOperation = errors.New("unknown operation")
)

// merchantPrefix marks merchant-class recipients, which are never charged.
const merchantPrefix = "4"

// Result is the fee and total for one priced operation.
type Result struct {
	Fee   decimal.Decimal `json:"fee"`
	Total decimal.Decimal `json:"total"`
	// Informational is set when Fee is only shown to the user and is not
	// part of Total.
	Informational bool `json:"informational,omitempty"`
}

// Compute prices an operation. counterpart is the recipient, reference or
// account identifier of the other party; only send looks at it.
//
// Rounding to two decimal places is applied to the final fee and total only.
func Compute(op Operation, counterpart string, amount decimal.Decimal) (Result, error) {
	switch op {
	case OperationSend:
		fee := SendFee
		if strings.HasPrefix(strings.TrimSpace(counterpart), merchantPrefix) {
			fee = decimal.Zero
		}
		return Result{Fee: fee, Total: amount.Add(fee).Round(2)}, nil

	case OperationTopUp, OperationRecharge:
		return Result{
			Fee:           amount.Mul(PercentageRate).Round(2),
			Total:         amount.Round(2),
			Informational: true,
		}, nil

	case OperationCashout:
		fee := amount.Mul(PercentageRate).Round(2)
		return Result{Fee: fee, Total: amount.Add(fee).Round(2)}, nil

	case OperationPay, OperationWithdraw, OperationCollect, OperationNone:
		return Result{Fee: decimal.Zero, Total: amount.Round(2)}, nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}
