package order

import "context"

// Repository persists orders as whole aggregates. Create must re-verify and
// commit stock atomically with the insert so that two concurrent checkouts
// cannot both satisfy a stock check only one of them can honor.
type Repository interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	Save(ctx context.Context, o *Order) error
}
