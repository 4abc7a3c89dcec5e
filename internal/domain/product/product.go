package product

import "github.com/shopspring/decimal"

// Product is the catalog collaborator seen by the cart and order aggregates.
// Stock is nullable: a product listed without inventory data has no recorded
// stock and must not be purchasable until it does.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       *int64
	CategoryID  int64
	IsActive    bool
}

func (p *Product) StockQuantity() int64 {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}

type ListFilter struct {
	CategoryID *int64
	Search     string
	OnlyActive bool
}
