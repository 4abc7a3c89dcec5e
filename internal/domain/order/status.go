package order

// Status is the order-level status. PENDING and CONFIRMED exist only at the
// order level; everything from PREPARING onward mirrors item fulfillment.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
	StatusExchanged Status = "EXCHANGED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded, StatusExchanged:
		return true
	default:
		return false
	}
}

// ItemStatus is the per-line-item fulfillment status.
type ItemStatus string

const (
	ItemStatusOrdered   ItemStatus = "ORDERED"
	ItemStatusPreparing ItemStatus = "PREPARING"
	ItemStatusShipped   ItemStatus = "SHIPPED"
	ItemStatusDelivered ItemStatus = "DELIVERED"
	ItemStatusCancelled ItemStatus = "CANCELLED"
	ItemStatusRefunded  ItemStatus = "REFUNDED"
	ItemStatusExchanged ItemStatus = "EXCHANGED"
)

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusOrdered, ItemStatusPreparing, ItemStatusShipped,
		ItemStatusDelivered, ItemStatusCancelled, ItemStatusRefunded,
		ItemStatusExchanged:
		return true
	default:
		return false
	}
}

// progress ranks fulfillment for the order-status aggregation. Cancelled
// items carry no rank; refunded and exchanged items passed through delivery,
// so they rank at the delivered level.
func (s ItemStatus) progress() (int, bool) {
	switch s {
	case ItemStatusOrdered:
		return 0, true
	case ItemStatusPreparing:
		return 1, true
	case ItemStatusShipped:
		return 2, true
	case ItemStatusDelivered, ItemStatusRefunded, ItemStatusExchanged:
		return 3, true
	default:
		return 0, false
	}
}

func statusForProgress(rank int) Status {
	switch rank {
	case 0:
		return StatusPending
	case 1:
		return StatusPreparing
	case 2:
		return StatusShipped
	default:
		return StatusDelivered
	}
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCOD          PaymentMethod = "COD"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCOD:
		return true
	default:
		return false
	}
}
