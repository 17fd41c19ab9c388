package workflows_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/testsuite"

	"wallet-journeys/activities"
	"wallet-journeys/shared"
	"wallet-journeys/workflows"
)

func passportUpload(id string) shared.DocumentUpload {
	return shared.DocumentUpload{
		CustomerID:   "31612345678",
		DocumentType: "passport",
		DocumentID:   id,
	}
}

func TestIdentityVerificationWorkflow_HappyPath(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	a := &activities.Activities{}

	env.RegisterActivity(a.ValidateWithSupplier)
	env.RegisterActivity(a.PerformInternalVerifications)

	env.OnActivity(a.ValidateWithSupplier, mock.Anything, mock.Anything).Return(
		shared.VerificationResult{
			Passed:         true,
			VerificationID: "SUP-31612345678",
			Details:        "Supplier verified",
		}, nil,
	)

	env.OnActivity(a.PerformInternalVerifications, mock.Anything, "31612345678").Return(
		shared.VerificationResult{
			Passed:         true,
			VerificationID: "INT-31612345678",
			Details:        "Internal checks passed",
		}, nil,
	)

	env.ExecuteWorkflow(workflows.IdentityVerificationWorkflow, passportUpload("123456789"))

	assert.True(t, env.IsWorkflowCompleted())
	assert.NoError(t, env.GetWorkflowError())

	var result shared.VerificationResult
	assert.NoError(t, env.GetWorkflowResult(&result))
	assert.True(t, result.Passed)
	assert.Equal(t, "KYC-31612345678", result.VerificationID)
}

func TestIdentityVerificationWorkflow_SupplierRejection(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	a := &activities.Activities{}

	env.RegisterActivity(a.ValidateWithSupplier)
	env.RegisterActivity(a.PerformInternalVerifications)

	// Real activity: the supplier refuses non-numeric document numbers.
	env.ExecuteWorkflow(workflows.IdentityVerificationWorkflow, passportUpload("ABC123"))

	assert.True(t, env.IsWorkflowCompleted())
	assert.NoError(t, env.GetWorkflowError())

	var result shared.VerificationResult
	assert.NoError(t, env.GetWorkflowResult(&result))
	assert.False(t, result.Passed)
	assert.Equal(t, "KYC-FAIL-31612345678", result.VerificationID)
	assert.Contains(t, result.Details, "Supplier validation failed")
}

func TestIdentityVerificationWorkflow_InternalFailure(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	a := &activities.Activities{}

	env.RegisterActivity(a.ValidateWithSupplier)
	env.RegisterActivity(a.PerformInternalVerifications)

	env.OnActivity(a.PerformInternalVerifications, mock.Anything, mock.Anything).Return(
		shared.VerificationResult{},
		assert.AnError,
	)

	env.ExecuteWorkflow(workflows.IdentityVerificationWorkflow, passportUpload("123456789"))

	assert.True(t, env.IsWorkflowCompleted())
	assert.NoError(t, env.GetWorkflowError())

	var result shared.VerificationResult
	assert.NoError(t, env.GetWorkflowResult(&result))
	assert.False(t, result.Passed)
	assert.Contains(t, result.Details, "Internal verifications failed")
}
