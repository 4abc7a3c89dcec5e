package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the post-checkout aggregate. It is created once from validated
// cart contents and never deleted; lifecycle changes only drive it through
// the status machine and the financial mutators.
type Order struct {
	ID             int64
	Number         string
	UserID         int64
	Items          []*Item
	Status         Status
	History        []*StatusChange
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	DeliveryFee    decimal.Decimal
	FinalAmount    decimal.Decimal
	Delivery       DeliveryInfo
	Payment        PaymentInfo
	CreatedAt      time.Time
}

func New(userID int64, items []*Item, delivery DeliveryInfo, method PaymentMethod) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrderItems
	}
	if !method.IsValid() {
		return nil, ErrInvalidPayment
	}
	o := &Order{
		Number:   newOrderNumber(),
		UserID:   userID,
		Items:    items,
		Status:   StatusPending,
		Delivery: delivery,
		Payment: PaymentInfo{
			Method: method,
			Status: PaymentStatusPending,
		},
		DiscountAmount: decimal.Zero,
		DeliveryFee:    decimal.Zero,
		CreatedAt:      time.Now(),
	}
	o.TotalAmount = o.CalculateTotalAmount()
	o.FinalAmount = o.TotalAmount
	return o, nil
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

// CalculateTotalAmount sums the current line-item totals. It is a pure query
// and does not write TotalAmount back; syncAmounts does.
func (o *Order) CalculateTotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.TotalPrice)
	}
	return total
}

// ChangeStatus is the audited transition path: it overwrites the status
// unconditionally and appends a history entry. Guards live in the advisory
// queries, not here.
func (o *Order) ChangeStatus(to Status, reason string) {
	from := o.Status
	o.Status = to
	o.History = append(o.History, &StatusChange{
		OrderID:   o.ID,
		From:      from,
		To:        to,
		Reason:    reason,
		ChangedAt: time.Now(),
	})
}

// CalculateStatus derives the order status from its item statuses without
// touching the history log. When every item is cancelled the order is
// cancelled; otherwise the order tracks the furthest fulfillment progress
// among the non-cancelled items. All-refunded and all-exchanged map to the
// matching order status.
func (o *Order) CalculateStatus() Status {
	if len(o.Items) == 0 {
		return o.Status
	}

	var active []*Item
	for _, it := range o.Items {
		if it.Status != ItemStatusCancelled {
			active = append(active, it)
		}
	}
	if len(active) == 0 {
		o.Status = StatusCancelled
		return o.Status
	}

	allRefunded, allExchanged := true, true
	maxRank := 0
	for _, it := range active {
		if it.Status != ItemStatusRefunded {
			allRefunded = false
		}
		if it.Status != ItemStatusExchanged {
			allExchanged = false
		}
		if rank, ok := it.Status.progress(); ok && rank > maxRank {
			maxRank = rank
		}
	}
	switch {
	case allRefunded:
		o.Status = StatusRefunded
	case allExchanged:
		o.Status = StatusExchanged
	default:
		o.Status = statusForProgress(maxRank)
	}
	return o.Status
}

// CanCancel reports whether the order as a whole may still be cancelled.
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

func (o *Order) CanRefund() bool {
	return o.Status == StatusDelivered
}

// Cancel moves the order to CANCELLED through the audited path and cascades
// to every item. The cascade is all-or-nothing: every item is checked before
// any is mutated, so a delivered item aborts the whole cancellation.
func (o *Order) Cancel(reason string) error {
	if !o.CanCancel() {
		return fmt.Errorf("%w: status is %s", ErrCannotCancel, o.Status)
	}
	for _, it := range o.Items {
		if it.Status == ItemStatusDelivered {
			return fmt.Errorf("%w: item %d already delivered", ErrCannotCancel, it.ID)
		}
	}
	for _, it := range o.Items {
		if err := it.Cancel(); err != nil {
			return err
		}
	}
	o.ChangeStatus(StatusCancelled, reason)
	return nil
}

// ApplyDiscount stores the discount and re-derives the payable amount.
func (o *Order) ApplyDiscount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	o.DiscountAmount = amount
	o.syncAmounts()
	return nil
}

// SetDeliveryFee stores the fee and re-derives the payable amount.
func (o *Order) SetDeliveryFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return ErrInvalidAmount
	}
	o.DeliveryFee = fee
	o.syncAmounts()
	return nil
}

// syncAmounts refreshes the stored total from the live item collection
// before deriving FinalAmount, so the identity
// final = total - discount + fee always holds against current items.
func (o *Order) syncAmounts() {
	o.TotalAmount = o.CalculateTotalAmount()
	o.FinalAmount = o.TotalAmount.Sub(o.DiscountAmount).Add(o.DeliveryFee)
}

// MarkAsDelivered assigns DELIVERED directly, without a history entry, and
// forwards the tracking number to the delivery record.
func (o *Order) MarkAsDelivered(trackingNumber *string) {
	o.Status = StatusDelivered
	o.Delivery.MarkDelivered(trackingNumber, time.Now())
}

func (o *Order) Item(itemID int64) (*Item, error) {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return nil, ErrOrderItemNotFound
}
