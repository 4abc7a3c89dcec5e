package product

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available for sale")
	ErrUnknownStock       = errors.New("product has no recorded stock")
	ErrInsufficientStock  = errors.New("insufficient stock")
)
