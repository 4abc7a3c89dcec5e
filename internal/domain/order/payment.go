package order

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentInfo is the payment record embedded in an order. The mark mutators
// set status and timestamps without checking the prior status; the gateway
// is the source of truth for what actually happened.
type PaymentInfo struct {
	Method        PaymentMethod
	Status        PaymentStatus
	PaymentID     *string
	TransactionID *string
	PaidAt        *time.Time
	CancelledAt   *time.Time
	CancelReason  *string
}

func (p *PaymentInfo) MarkCompleted(paymentID, transactionID string, at time.Time) {
	p.PaymentID = &paymentID
	p.TransactionID = &transactionID
	p.Status = PaymentStatusCompleted
	p.PaidAt = &at
}

func (p *PaymentInfo) MarkCancelled(reason string, at time.Time) {
	p.Status = PaymentStatusCancelled
	p.CancelledAt = &at
	p.CancelReason = &reason
}

func (p *PaymentInfo) MarkRefunded(at time.Time) {
	p.Status = PaymentStatusRefunded
	p.CancelledAt = &at
}

func (p *PaymentInfo) MarkFailed() {
	p.Status = PaymentStatusFailed
}
