package cart

import "context"

// Repository persists the cart as a whole aggregate. Save replaces the item
// rows with the aggregate's current set, which also covers clearing.
type Repository interface {
	GetByUserID(ctx context.Context, userID int64) (*Cart, error)
	Create(ctx context.Context, c *Cart) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}
