package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	domproduct "example.com/shop-core/internal/domain/product"
)

// Item is one committed line of an order. UnitPrice and TotalPrice are frozen
// at creation; later catalog price changes never touch a placed order.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Status      ItemStatus
}

// NewItem is the single point where a cart row becomes a priced commitment.
// It re-runs the shared availability check against current stock and
// snapshots the current product price. The stock decrement itself belongs to
// the inventory side, not here.
func NewItem(p *domproduct.Product, quantity int64) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := domproduct.EnsurePurchasable(p, quantity); err != nil {
		return nil, err
	}
	return &Item{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		TotalPrice:  p.Price.Mul(decimal.NewFromInt(quantity)),
		Status:      ItemStatusOrdered,
	}, nil
}

func (it *Item) StartPreparing() error {
	if it.Status != ItemStatusOrdered {
		return transitionError(it.Status, ItemStatusPreparing)
	}
	it.Status = ItemStatusPreparing
	return nil
}

func (it *Item) Ship() error {
	if it.Status != ItemStatusPreparing {
		return transitionError(it.Status, ItemStatusShipped)
	}
	it.Status = ItemStatusShipped
	return nil
}

func (it *Item) CompleteDelivery() error {
	if it.Status != ItemStatusShipped {
		return transitionError(it.Status, ItemStatusDelivered)
	}
	it.Status = ItemStatusDelivered
	return nil
}

// Cancel is legal from any pre-delivery state, including SHIPPED. Note that
// CanCancel reports a narrower set; both behaviors are load-bearing for
// existing callers.
func (it *Item) Cancel() error {
	if it.Status == ItemStatusDelivered {
		return transitionError(it.Status, ItemStatusCancelled)
	}
	it.Status = ItemStatusCancelled
	return nil
}

func (it *Item) Refund() error {
	if it.Status != ItemStatusDelivered {
		return transitionError(it.Status, ItemStatusRefunded)
	}
	it.Status = ItemStatusRefunded
	return nil
}

func (it *Item) Exchange() error {
	if it.Status != ItemStatusDelivered {
		return transitionError(it.Status, ItemStatusExchanged)
	}
	it.Status = ItemStatusExchanged
	return nil
}

// CanCancel reports true for ORDERED and PREPARING only, which is narrower
// than what Cancel accepts.
func (it *Item) CanCancel() bool {
	return it.Status == ItemStatusOrdered || it.Status == ItemStatusPreparing
}

func (it *Item) CanRefund() bool {
	return it.Status == ItemStatusDelivered
}

func (it *Item) CanExchange() bool {
	return it.Status == ItemStatusDelivered
}

func transitionError(from, to ItemStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
