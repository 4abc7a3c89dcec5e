package checkout

import (
	"context"
	"errors"

	domcart "example.com/shop-core/internal/domain/cart"
	domorder "example.com/shop-core/internal/domain/order"
	domproduct "example.com/shop-core/internal/domain/product"
)

type CartRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domcart.Cart, error)
	Save(ctx context.Context, c *domcart.Cart) error
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

// ProductCacheInvalidator is implemented by cached product repositories. The
// order insert decrements stock in the database, so any cached copies of the
// ordered products are stale the moment it commits.
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...int64)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domorder.Order) (*domorder.Order, error)
}

type Service struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	orderRepo   OrderRepository
}

func NewService(cartRepo CartRepository, productRepo ProductRepository, orderRepo OrderRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

type Input struct {
	PaymentMethod  domorder.PaymentMethod
	RecipientName  string
	RecipientPhone string
	RoadAddress    string
	DetailAddress  *string
	ZipCode        string
	Memo           *string
}

// Checkout materializes the user's cart into an order. Every cart row passes
// through the order-item factory, which re-validates availability against
// current stock and freezes the price. The repository commits the stock
// decrement atomically with the insert; the cart is cleared afterwards.
func (s *Service) Checkout(ctx context.Context, userID int64, in Input) (*domorder.Order, error) {
	if !in.PaymentMethod.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}

	c, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domcart.ErrCartNotFound) {
			return nil, domorder.ErrEmptyOrderItems
		}
		return nil, err
	}
	if !c.CanPlaceOrder() {
		return nil, domorder.ErrEmptyOrderItems
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

	items := make([]*domorder.Item, 0, len(c.Items))
	for _, row := range c.Items {
		p, ok := byID[row.ProductID]
		if !ok {
			return nil, domorder.ErrCheckoutValidation
		}
		item, err := domorder.NewItem(p, row.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	delivery := domorder.DeliveryInfo{
		RecipientName:  in.RecipientName,
		RecipientPhone: in.RecipientPhone,
		RoadAddress:    in.RoadAddress,
		DetailAddress:  in.DetailAddress,
		ZipCode:        in.ZipCode,
		Memo:           in.Memo,
	}

	o, err := domorder.New(userID, items, delivery, in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	if inv, ok := s.productRepo.(ProductCacheInvalidator); ok {
		inv.Invalidate(ctx, ids...)
	}

	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return created, nil
}
