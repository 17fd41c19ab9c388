package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"wallet-journeys/shared"
)

// IdentityVerificationWorkflow is a child workflow that runs KYC on the
// identity document captured at the end of onboarding. It validates the
// document with a 3rd party supplier, then runs internal checks.
func IdentityVerificationWorkflow(ctx workflow.Context, doc shared.DocumentUpload) (shared.VerificationResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Identity verification workflow started",
		"customerId", doc.CustomerID,
		"documentType", doc.DocumentType,
		"documentId", doc.DocumentID,
	)

	// External API calls get more time and retries.
	supplierOpts := workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        30 * time.Second,
			NonRetryableErrorTypes: []string{shared.ErrTypeIdentityVerificationFailed},
		},
	}

	internalOpts := workflow.ActivityOptions{
		TaskQueue:           shared.ActivityTaskQueue,
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	}

	var supplierResult shared.VerificationResult
	supplierCtx := workflow.WithActivityOptions(ctx, supplierOpts)
	err := workflow.ExecuteActivity(supplierCtx, a.ValidateWithSupplier, doc).Get(ctx, &supplierResult)
	if err != nil {
		logger.Error("Supplier validation failed", "customerId", doc.CustomerID, "error", err)
		return shared.VerificationResult{
			Passed:         false,
			VerificationID: fmt.Sprintf("KYC-FAIL-%s", doc.CustomerID),
			Details:        fmt.Sprintf("Supplier validation failed: %v", err),
		}, nil // A KYC rejection is a business outcome, not a workflow failure.
	}
	logger.Info("Supplier validation passed", "verificationId", supplierResult.VerificationID)

	var internalResult shared.VerificationResult
	internalCtx := workflow.WithActivityOptions(ctx, internalOpts)
	err = workflow.ExecuteActivity(internalCtx, a.PerformInternalVerifications, doc.CustomerID).Get(ctx, &internalResult)
	if err != nil {
		logger.Error("Internal verifications failed", "customerId", doc.CustomerID, "error", err)
		return shared.VerificationResult{
			Passed:         false,
			VerificationID: fmt.Sprintf("KYC-FAIL-%s", doc.CustomerID),
			Details:        fmt.Sprintf("Internal verifications failed: %v", err),
		}, nil
	}
	logger.Info("Internal verifications passed", "verificationId", internalResult.VerificationID)

	return shared.VerificationResult{
		Passed:         true,
		VerificationID: fmt.Sprintf("KYC-%s", doc.CustomerID),
		Details:        "All KYC checks passed (supplier + internal)",
	}, nil
}
