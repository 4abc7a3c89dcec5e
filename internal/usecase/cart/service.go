package cart

import (
	"context"
	"errors"
	"fmt"

	domcart "example.com/shop-core/internal/domain/cart"
	domproduct "example.com/shop-core/internal/domain/product"
)

type CartRepository interface {
	domcart.Repository
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

type Service struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewService(cartRepo CartRepository, productRepo ProductRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's active cart, creating an empty one on first
// access.
func (s *Service) GetCart(ctx context.Context, userID int64) (*domcart.Cart, error) {
	return s.getOrCreate(ctx, userID)
}

// AddToCart merges the requested quantity into the cart. The stock check
// runs against the combined post-merge quantity, not just the new request.
func (s *Service) AddToCart(ctx context.Context, userID, productID, quantity int64) (*domcart.Cart, error) {
	if quantity <= 0 {
		return nil, domcart.ErrInvalidQuantity
	}

	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	combined := c.QuantityOf(productID) + quantity
	if err := domproduct.EnsurePurchasable(p, combined); err != nil {
		return nil, err
	}

	if err := c.AddItem(p.ID, quantity, p.Price); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateItemQuantity sets the row's quantity; zero or below removes the row.
// A product not in the cart is a no-op.
func (s *Service) UpdateItemQuantity(ctx context.Context, userID, productID, quantity int64) (*domcart.Cart, error) {
	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !c.Contains(productID) {
		return c, nil
	}

	if quantity > 0 {
		p, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if err := domproduct.EnsurePurchasable(p, quantity); err != nil {
			return nil, err
		}
	}

	if err := c.UpdateItemQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) (*domcart.Cart, error) {
	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.RemoveItem(productID)
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, userID int64) (*domcart.Cart, error) {
	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ItemWarning flags one problematic cart row during the read-only validate
// flow.
type ItemWarning struct {
	ProductID int64
	Message   string
}

type ValidationResult struct {
	Cart     *domcart.Cart
	Warnings []ItemWarning
}

// Validate refreshes every row's unit price from the current catalog price
// and reports staleness as warnings instead of failing: a stale cart must
// stay browsable, unlike checkout.
func (s *Service) Validate(ctx context.Context, userID int64) (*ValidationResult, error) {
	c, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return &ValidationResult{Cart: c}, nil
	}

	ids := make([]int64, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var warnings []ItemWarning
	for _, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok || !p.IsActive {
			warnings = append(warnings, ItemWarning{
				ProductID: it.ProductID,
				Message:   "product is no longer available",
			})
			continue
		}
		c.RefreshItemPrice(it.ProductID, p.Price)
		if p.Stock == nil {
			warnings = append(warnings, ItemWarning{
				ProductID: it.ProductID,
				Message:   fmt.Sprintf("%s has no recorded stock", p.Name),
			})
		} else if it.Quantity > *p.Stock {
			warnings = append(warnings, ItemWarning{
				ProductID: it.ProductID,
				Message:   fmt.Sprintf("%s has only %d left, cart has %d", p.Name, *p.Stock, it.Quantity),
			})
		}
	}

	// Refreshed prices are worth keeping even when some rows carry warnings.
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return &ValidationResult{Cart: c, Warnings: warnings}, nil
}

func (s *Service) getOrCreate(ctx context.Context, userID int64) (*domcart.Cart, error) {
	c, err := s.cartRepo.GetByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domcart.ErrCartNotFound) {
		return nil, err
	}
	return s.cartRepo.Create(ctx, domcart.New(userID))
}
