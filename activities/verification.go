package activities

import (
	"context"
	"fmt"
	"unicode"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"wallet-journeys/shared"
)

// supportedDocuments are the identity document types the supplier checks.
var supportedDocuments = map[string]bool{
	"passport":       true,
	"nationalId":     true,
	"driversLicense": true,
}

// ValidateWithSupplier sends the customer's identity document to a
// third-party verification supplier and returns the result.
func (a *Activities) ValidateWithSupplier(ctx context.Context, doc shared.DocumentUpload) (shared.VerificationResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Sending document to verification supplier",
		"customerId", doc.CustomerID,
		"documentType", doc.DocumentType,
		"documentId", doc.DocumentID,
	)

	if !supportedDocuments[doc.DocumentType] {
		logger.Info("Supplier rejected identity document: unsupported type",
			"customerId", doc.CustomerID,
			"documentType", doc.DocumentType,
		)
		return shared.VerificationResult{
				Passed:         false,
				VerificationID: fmt.Sprintf("SUP-FAIL-%s", doc.CustomerID),
				Details:        fmt.Sprintf("Document type '%s' is not accepted", doc.DocumentType),
			}, temporal.NewNonRetryableApplicationError(
				"identity document rejected by supplier: unsupported document type",
				shared.ErrTypeIdentityVerificationFailed,
				nil,
			)
	}

	// The supplier only accepts numeric document numbers.
	for _, ch := range doc.DocumentID {
		if !unicode.IsDigit(ch) {
			logger.Info("Supplier rejected identity document: non-numeric characters",
				"customerId", doc.CustomerID,
				"documentId", doc.DocumentID,
			)
			return shared.VerificationResult{
					Passed:         false,
					VerificationID: fmt.Sprintf("SUP-FAIL-%s", doc.CustomerID),
					Details:        fmt.Sprintf("Document ID '%s' contains non-numeric characters", doc.DocumentID),
				}, temporal.NewNonRetryableApplicationError(
					"identity document rejected by supplier: contains non-numeric characters",
					shared.ErrTypeIdentityVerificationFailed,
					nil,
				)
		}
	}

	verificationID := fmt.Sprintf("SUP-%s", doc.CustomerID)
	logger.Info("Supplier verified document successfully", "verificationId", verificationID)

	return shared.VerificationResult{
		Passed:         true,
		VerificationID: verificationID,
		Details:        fmt.Sprintf("%s verified by supplier", doc.DocumentType),
	}, nil
}

// PerformInternalVerifications runs the wallet's own KYC checks:
//  1. Duplicate account check on the verified phone number.
//  2. Sanctions screening.
func (a *Activities) PerformInternalVerifications(ctx context.Context, customerID string) (shared.VerificationResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Performing internal verifications", "customerId", customerID)

	logger.Info("Running duplicate account check", "customerId", customerID)
	logger.Info("Running sanctions list screening", "customerId", customerID)

	verificationID := fmt.Sprintf("INT-%s", customerID)
	logger.Info("Internal verifications passed", "verificationId", verificationID)

	return shared.VerificationResult{
		Passed:         true,
		VerificationID: verificationID,
		Details:        "All internal verifications passed (duplicates + sanctions)",
	}, nil
}
