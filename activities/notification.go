package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"wallet-journeys/shared"
)

// SendVerificationCode texts a one-time code to the customer's phone.
// Idempotency: not naturally idempotent (retries would send duplicate SMS).
// In production, pass the returned message ID as an idempotency key to the
// SMS provider.
func (a *Activities) SendVerificationCode(ctx context.Context, req shared.CodeRequest) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Sending verification code",
		"sessionId", req.SessionID,
		"phone", req.Phone,
		"attempt", req.Attempt,
	)

	// In production: integrate with an SMS gateway (Twilio, MessageBird, etc.)
	messageID := fmt.Sprintf("OTP-%s-%d", req.SessionID, req.Attempt)
	logger.Info("Verification code sent", "messageId", messageID)

	return messageID, nil
}
