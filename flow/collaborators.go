package flow

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet-journeys/fees"
)

// Submission is the finalized journey handed to the transaction backend.
type Submission struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Journey   JourneyKind       `json:"journey"`
	Operation fees.Operation    `json:"operation"`
	Fields    map[string]string `json:"fields"`
	Amount    decimal.Decimal   `json:"amount"`
	Quote     fees.Result       `json:"quote"`
}

// Receipt is the backend's acknowledgement of a submission.
type Receipt struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// Backend processes finalized journeys. Any returned error keeps the
// journey on its completion step.
type Backend interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// LocalBackend accepts every submission without contacting anything.
type LocalBackend struct{}

// Submit returns a receipt keyed by the submission ID.
func (LocalBackend) Submit(_ context.Context, sub Submission) (Receipt, error) {
	return Receipt{TransactionID: sub.ID, Status: "ACCEPTED"}, nil
}

// ScanResult is a decoded merchant QR code.
type ScanResult struct {
	Reference string
	Amount    decimal.Decimal
}

// Scanner opens the camera and decodes one QR code. Scan may block until
// the user points the camera at a code or gives up.
type Scanner interface {
	Scan(ctx context.Context) (ScanResult, error)
}
