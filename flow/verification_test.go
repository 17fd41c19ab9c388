package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet-journeys/gate"
)

func startOnboardingAtOTP(t *testing.T) (*Controller, *gate.ManualTicks) {
	t.Helper()
	c, ticks := newTestController(t, RoleCustomer)
	require.NoError(t, c.Start(JourneyOnboarding))
	step, err := c.Advance(PhoneDetails{Phone: "+31 612345678"})
	require.NoError(t, err)
	require.Equal(t, StepOnboardingOTP, step)
	return c, ticks
}

func TestController_VerificationCountdown(t *testing.T) {
	c, ticks := startOnboardingAtOTP(t)

	state, ok := c.Verification()
	require.True(t, ok)
	assert.Equal(t, gate.VerificationState{RemainingSeconds: 60}, state)

	assert.ErrorIs(t, c.Resend(), ErrResendUnavailable)

	ticks.Fire(60)
	state, _ = c.Verification()
	assert.Equal(t, gate.VerificationState{RemainingSeconds: 0, CanResend: true}, state)

	require.NoError(t, c.Resend())
	state, _ = c.Verification()
	assert.Equal(t, gate.VerificationState{RemainingSeconds: 60, CanResend: false}, state)

	ticks.Fire(10)
	state, _ = c.Verification()
	assert.Equal(t, 50, state.RemainingSeconds)
}

func TestController_BackOutOfVerificationCancelsTimer(t *testing.T) {
	c, ticks := startOnboardingAtOTP(t)
	require.True(t, ticks.Running())

	step, err := c.Back()
	require.NoError(t, err)
	assert.Equal(t, StepOnboarding, step)
	assert.False(t, ticks.Running())
	_, ok := c.Verification()
	assert.False(t, ok)

	// Re-entering starts exactly one fresh countdown.
	_, err = c.Advance(PhoneDetails{Phone: "31612345678"})
	require.NoError(t, err)
	state, ok := c.Verification()
	require.True(t, ok)
	assert.Equal(t, 60, state.RemainingSeconds)
	assert.Equal(t, 2, ticks.Starts())
}

func TestController_StartingAnotherJourneyCancelsTimer(t *testing.T) {
	c, ticks := startOnboardingAtOTP(t)
	require.NoError(t, c.Start(JourneyLogin))
	assert.False(t, ticks.Running())
	assert.Equal(t, StepLogin, c.Step())
}

func TestController_CloseReleasesEverything(t *testing.T) {
	c, ticks := startOnboardingAtOTP(t)
	c.Close()
	assert.False(t, ticks.Running())
	assert.Nil(t, c.Payload())
	assert.Equal(t, StepSelectionRoot, c.Step())
}

func TestController_OnboardingGates(t *testing.T) {
	c, ticks := startOnboardingAtOTP(t)
	assert.Equal(t, "31612345678", c.Payload().Fields()["phone"])

	_, err := c.Advance(OTPCode{Code: "12ab56"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "code", verr.Field)

	step, err := c.Advance(OTPCode{Code: "123456"})
	require.NoError(t, err)
	assert.Equal(t, StepOnboardingTerms, step)
	assert.False(t, ticks.Running(), "leaving the OTP step releases its timer")

	_, err = c.Advance(TermsAcceptance{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "terms", verr.Field)

	assert.False(t, c.Scroll(gate.ScrollSample{Offset: 0, Viewport: 600, Content: 3000}))
	assert.True(t, c.Scroll(gate.ScrollSample{Offset: 2400, Viewport: 600, Content: 3000}))
	assert.True(t, c.Scroll(gate.ScrollSample{Offset: 0, Viewport: 600, Content: 3000}))

	step, err = c.Advance(TermsAcceptance{})
	require.NoError(t, err)
	assert.Equal(t, StepOnboardingDocuments, step)

	_, err = c.Complete(context.Background(), JourneyOnboarding)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "documentType", verr.Field)

	_, err = c.Advance(DocumentDetails{DocumentType: "passport", DocumentID: "123456789"})
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), JourneyOnboarding)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "document", verr.Field)

	_, err = c.Advance(Attachment{Kind: AttachDocument})
	require.NoError(t, err)

	_, ok := c.Quote()
	assert.False(t, ok, "onboarding has nothing to price")

	_, err = c.Complete(context.Background(), JourneyOnboarding)
	require.NoError(t, err)
	assert.Equal(t, StepDashboard, c.Step())
}

func TestController_TermsGateIsPerStepInstance(t *testing.T) {
	c, _ := startOnboardingAtOTP(t)
	_, err := c.Advance(OTPCode{Code: "123456"})
	require.NoError(t, err)
	require.True(t, c.Scroll(gate.ScrollSample{Offset: 2400, Viewport: 600, Content: 3000}))

	_, err = c.Back()
	require.NoError(t, err)
	assert.Equal(t, StepOnboardingOTP, c.Step())
	assert.False(t, c.Scroll(gate.ScrollSample{Offset: 2400, Viewport: 600, Content: 3000}),
		"no terms gate outside the terms step")

	_, err = c.Advance(OTPCode{Code: "123456"})
	require.NoError(t, err)
	_, err = c.Advance(TermsAcceptance{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr, "a re-entered terms step must be read again")
}

func TestController_MerchantLogin(t *testing.T) {
	c, ticks := newTestController(t, RoleMerchant)
	require.NoError(t, c.Start(JourneyLogin))
	assert.Equal(t, StepMerchantLogin, c.Step())

	_, err := c.Advance(LoginDetails{Phone: "612345678", PIN: "12"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pin", verr.Field)

	step, err := c.Advance(LoginDetails{Phone: "612345678", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, StepLoginOTP, step)
	assert.True(t, ticks.Running())

	_, err = c.Complete(context.Background(), JourneyLogin)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "code", verr.Field)

	step, err = c.Advance(OTPCode{Code: "654321"})
	require.NoError(t, err)
	assert.Equal(t, StepLoginOTP, step)

	_, err = c.Complete(context.Background(), JourneyLogin)
	require.NoError(t, err)
	assert.Equal(t, StepMerchantDashboard, c.Step())
	assert.False(t, ticks.Running())
}

func TestController_LoginOTPBackReturnsToRoleLogin(t *testing.T) {
	c, _ := newTestController(t, RoleMerchant)
	require.NoError(t, c.Start(JourneyLogin))
	_, err := c.Advance(LoginDetails{Phone: "612345678", PIN: "1234"})
	require.NoError(t, err)

	step, err := c.Back()
	require.NoError(t, err)
	assert.Equal(t, StepMerchantLogin, step)
}
