package activities

import "github.com/shopspring/decimal"

// Activities is the receiver for all activity methods. Using a struct lets
// Temporal register every method via RegisterActivity(a) and lets workers
// inject configuration that each activity reads through the receiver.
type Activities struct {
	// TransactionLimit caps the total of a single submission. Zero means no
	// cap.
	TransactionLimit decimal.Decimal
}
