package order

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrEmptyOrderItems    = errors.New("no items to checkout")
	ErrInvalidPayment     = errors.New("invalid payment method")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("illegal status transition")
	ErrCannotCancel       = errors.New("order can no longer be cancelled")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrNotOwner           = errors.New("order does not belong to this user")
	ErrCheckoutValidation = errors.New("checkout validation failed")
)
