package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"wallet-journeys/flow"
	"wallet-journeys/shared"
)

// ProcessTransaction hands a finalized journey to the payment backend.
// Idempotency: the submission ID is the idempotency key, so a retried call
// yields the same transaction ID.
func (a *Activities) ProcessTransaction(ctx context.Context, sub flow.Submission) (flow.Receipt, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Processing transaction",
		"submissionId", sub.ID,
		"journey", sub.Journey,
		"operation", sub.Operation,
		"amount", sub.Amount.String(),
		"fee", sub.Quote.Fee.String(),
		"total", sub.Quote.Total.String(),
	)

	if !a.TransactionLimit.IsZero() && sub.Quote.Total.GreaterThan(a.TransactionLimit) {
		logger.Info("Transaction rejected: over limit",
			"submissionId", sub.ID,
			"limit", a.TransactionLimit.String(),
		)
		return flow.Receipt{}, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("total %s exceeds the transaction limit of %s", sub.Quote.Total, a.TransactionLimit),
			shared.ErrTypeTransactionRejected,
			nil,
		)
	}

	// In production: call the payment rail for sub.Operation.
	receipt := flow.Receipt{
		TransactionID: fmt.Sprintf("TXN-%s", sub.ID),
		Status:        "APPROVED",
	}
	logger.Info("Transaction approved", "transactionId", receipt.TransactionID)

	return receipt, nil
}
