package product

import "fmt"

// EnsurePurchasable is the shared availability gate used by the cart and by
// order-item creation. The checks run in a fixed order: active flag first,
// then recorded stock, then quantity against stock. Requesting exactly the
// remaining stock is allowed.
func EnsurePurchasable(p *Product, quantity int64) error {
	if p == nil || !p.IsActive {
		return ErrProductUnavailable
	}
	if p.Stock == nil {
		return ErrUnknownStock
	}
	if quantity > *p.Stock {
		return fmt.Errorf("%w: %s has %d in stock, requested %d",
			ErrInsufficientStock, p.Name, *p.Stock, quantity)
	}
	return nil
}
