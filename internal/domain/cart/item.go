package cart

import "github.com/shopspring/decimal"

// Item is one product row inside a cart. Quantity is always positive while
// the item exists; a quantity that would drop to zero or below is handled by
// the aggregate as removal, never as a zero-quantity row.
type Item struct {
	ID         int64
	CartID     int64
	ProductID  int64
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

func NewItem(cartID, productID, quantity int64, unitPrice decimal.Decimal) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	it := &Item{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	it.recalcTotal()
	return it, nil
}

// SetQuantity rejects non-positive values outright. Removal-on-zero is a
// cart-level decision, not an item-level one.
func (it *Item) SetQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	it.Quantity = quantity
	it.recalcTotal()
	return nil
}

func (it *Item) addQuantity(quantity int64) {
	it.Quantity += quantity
	it.recalcTotal()
}

// RefreshPrice re-snapshots the unit price from the catalog and keeps the
// line total in sync.
func (it *Item) RefreshPrice(unitPrice decimal.Decimal) {
	it.UnitPrice = unitPrice
	it.recalcTotal()
}

func (it *Item) recalcTotal() {
	it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}
