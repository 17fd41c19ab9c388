package activities_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"wallet-journeys/activities"
	"wallet-journeys/fees"
	"wallet-journeys/flow"
	"wallet-journeys/shared"
)

func cashoutSubmission(t *testing.T, amount string) flow.Submission {
	amt := decimal.RequireFromString(amount)
	quote, err := fees.Compute(fees.OperationCashout, "NL91ABNA0417164300", amt)
	require.NoError(t, err)
	return flow.Submission{
		ID:        "sub-1",
		Role:      flow.RoleBackOffice,
		Journey:   flow.JourneyCashout,
		Operation: fees.OperationCashout,
		Fields:    map[string]string{"accountNumber": "NL91ABNA0417164300", "amount": amount},
		Amount:    amt,
		Quote:     quote,
	}
}

func TestProcessTransaction_Approved(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{TransactionLimit: decimal.RequireFromString("1000")}
	env.RegisterActivity(a.ProcessTransaction)

	result, err := env.ExecuteActivity(a.ProcessTransaction, cashoutSubmission(t, "100"))
	require.NoError(t, err)

	var receipt flow.Receipt
	require.NoError(t, result.Get(&receipt))
	assert.Equal(t, flow.Receipt{TransactionID: "TXN-sub-1", Status: "APPROVED"}, receipt)
}

func TestProcessTransaction_OverLimitRejected(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{TransactionLimit: decimal.RequireFromString("1000")}
	env.RegisterActivity(a.ProcessTransaction)

	// 990 plus the 2% fee crosses the limit.
	_, err := env.ExecuteActivity(a.ProcessTransaction, cashoutSubmission(t, "990"))
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, shared.ErrTypeTransactionRejected, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestProcessTransaction_NoLimit(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{}
	env.RegisterActivity(a.ProcessTransaction)

	_, err := env.ExecuteActivity(a.ProcessTransaction, cashoutSubmission(t, "1000000"))
	assert.NoError(t, err)
}

func TestSendVerificationCode(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{}
	env.RegisterActivity(a.SendVerificationCode)

	req := shared.CodeRequest{SessionID: "S-001", Phone: "31612345678", Attempt: 2}
	result, err := env.ExecuteActivity(a.SendVerificationCode, req)
	require.NoError(t, err)

	var messageID string
	require.NoError(t, result.Get(&messageID))
	assert.Equal(t, "OTP-S-001-2", messageID)
}

func TestValidateWithSupplier_NumericID_Passes(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{}
	env.RegisterActivity(a.ValidateWithSupplier)

	doc := shared.DocumentUpload{
		CustomerID:   "31612345678",
		DocumentType: "passport",
		DocumentID:   "123456789",
	}

	result, err := env.ExecuteActivity(a.ValidateWithSupplier, doc)
	require.NoError(t, err)

	var verResult shared.VerificationResult
	require.NoError(t, result.Get(&verResult))
	assert.True(t, verResult.Passed)
	assert.Equal(t, "SUP-31612345678", verResult.VerificationID)
}

func TestValidateWithSupplier_NonNumericID_Rejected(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{}
	env.RegisterActivity(a.ValidateWithSupplier)

	doc := shared.DocumentUpload{
		CustomerID:   "31612345678",
		DocumentType: "passport",
		DocumentID:   "ABC123",
	}

	_, err := env.ExecuteActivity(a.ValidateWithSupplier, doc)
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, shared.ErrTypeIdentityVerificationFailed, appErr.Type())
}

func TestPerformInternalVerifications(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{}
	env.RegisterActivity(a.PerformInternalVerifications)

	result, err := env.ExecuteActivity(a.PerformInternalVerifications, "31612345678")
	require.NoError(t, err)

	var verResult shared.VerificationResult
	require.NoError(t, result.Get(&verResult))
	assert.True(t, verResult.Passed)
	assert.Equal(t, "INT-31612345678", verResult.VerificationID)
}

func TestValidateWithSupplier_UnsupportedDocumentType_Rejected(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestActivityEnvironment()
	a := &activities.Activities{}
	env.RegisterActivity(a.ValidateWithSupplier)

	doc := shared.DocumentUpload{
		CustomerID:   "31612345678",
		DocumentType: "libraryCard",
		DocumentID:   "123456789",
	}

	_, err := env.ExecuteActivity(a.ValidateWithSupplier, doc)
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, shared.ErrTypeIdentityVerificationFailed, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}
