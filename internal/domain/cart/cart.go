package cart

import "github.com/shopspring/decimal"

// Cart is the pre-purchase staging aggregate, one per user. TotalItems and
// TotalPrice are derived and re-computed after every structural mutation.
type Cart struct {
	ID         int64
	UserID     int64
	Items      []*Item
	TotalItems int64
	TotalPrice decimal.Decimal
	IsActive   bool
}

func New(userID int64) *Cart {
	return &Cart{
		UserID:     userID,
		Items:      []*Item{},
		TotalPrice: decimal.Zero,
		IsActive:   true,
	}
}

// AddItem merges on insert: adding a product already in the cart increases
// that row's quantity instead of appending a second row.
func (c *Cart) AddItem(productID, quantity int64, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if existing := c.find(productID); existing != nil {
		existing.addQuantity(quantity)
	} else {
		it, err := NewItem(c.ID, productID, quantity, unitPrice)
		if err != nil {
			return err
		}
		c.Items = append(c.Items, it)
	}
	c.recalculate()
	return nil
}

// UpdateItemQuantity treats a non-positive quantity as removal. A product
// that is not in the cart is a no-op.
func (c *Cart) UpdateItemQuantity(productID, quantity int64) error {
	it := c.find(productID)
	if it == nil {
		return nil
	}
	if quantity <= 0 {
		c.RemoveItem(productID)
		return nil
	}
	if err := it.SetQuantity(quantity); err != nil {
		return err
	}
	c.recalculate()
	return nil
}

// RefreshItemPrice re-snapshots one row's unit price and re-derives the cart
// totals. A product that is not in the cart is a no-op.
func (c *Cart) RefreshItemPrice(productID int64, unitPrice decimal.Decimal) {
	it := c.find(productID)
	if it == nil {
		return
	}
	it.RefreshPrice(unitPrice)
	c.recalculate()
}

func (c *Cart) RemoveItem(productID int64) {
	for i, it := range c.Items {
		if it.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.recalculate()
}

func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.recalculate()
}

// recalculate re-derives TotalItems and TotalPrice from the item rows. It is
// idempotent and touches nothing else.
func (c *Cart) recalculate() {
	var count int64
	total := decimal.Zero
	for _, it := range c.Items {
		count += it.Quantity
		total = total.Add(it.TotalPrice)
	}
	c.TotalItems = count
	c.TotalPrice = total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Contains(productID int64) bool {
	return c.find(productID) != nil
}

// QuantityOf returns zero for a product not in the cart.
func (c *Cart) QuantityOf(productID int64) int64 {
	if it := c.find(productID); it != nil {
		return it.Quantity
	}
	return 0
}

func (c *Cart) ItemCount() int {
	return len(c.Items)
}

func (c *Cart) CanPlaceOrder() bool {
	return c.IsActive && !c.IsEmpty()
}

func (c *Cart) find(productID int64) *Item {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it
		}
	}
	return nil
}
